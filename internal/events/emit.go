package events

import (
	"context"
	"time"

	"consolebridge/internal/models"
)

const (
	ActorOperator = "operator"
	ActorSystem   = "system"
)

const (
	TargetOperator = "operator"
	TargetTenant   = "tenant"
	TargetSession  = "session"
)

func (e *Emitter) Emit(evt models.Event) {
	evt.TimeStamp = time.Now().UTC()

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.InsertOne(ctx, evt)
	}
}
