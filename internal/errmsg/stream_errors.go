package errmsg

import "net/http"

var (
	StreamAuthRejected = NewStatusError(
		http.StatusUnauthorized,
		"live connection rejected: token no longer accepted",
	)
	StreamConnectionFailed = NewStatusError(
		http.StatusBadGateway,
		"live connection lost and reconnection attempts exhausted",
	)
)
