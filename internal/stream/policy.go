package stream

import (
	"time"

	"consolebridge/internal/env"
)

// ReconnectPolicy bounds how the supervisor retries transient
// disconnects: a fixed delay between attempts and a hard attempt cap,
// after which the connection error is terminal. Auth rejections never
// consume attempts; they bypass the policy entirely.
type ReconnectPolicy struct {
	Delay       time.Duration
	MaxAttempts int
}

func DefaultPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Delay:       env.STREAM_RETRY_DELAY,
		MaxAttempts: env.STREAM_MAX_RETRIES,
	}
}
