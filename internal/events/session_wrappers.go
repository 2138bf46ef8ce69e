package events

import "consolebridge/internal/models"

func (e *Emitter) SessionOpened(operatorID, sessionID, tenantID, channelID string) {
	evt := models.Event{
		Action: "session.opened",

		ActorRole: ActorOperator,
		ActorID:   operatorID,

		TargetType: TargetSession,
		TargetID:   sessionID,

		Props: map[string]any{
			"tenantID":  tenantID,
			"channelID": channelID,
		},
	}

	e.Emit(evt)
}

func (e *Emitter) SessionClosed(operatorID, sessionID string) {
	evt := models.Event{
		Action: "session.closed",

		ActorRole: ActorOperator,
		ActorID:   operatorID,

		TargetType: TargetSession,
		TargetID:   sessionID,

		Props: nil,
	}

	e.Emit(evt)
}

func (e *Emitter) StreamAuthRejected(sessionID, tenantID string) {
	evt := models.Event{
		Action: "stream.auth_rejected",

		ActorRole: ActorSystem,
		ActorID:   "supervisor",

		TargetType: TargetSession,
		TargetID:   sessionID,

		Props: map[string]any{
			"tenantID": tenantID,
		},
	}

	e.Emit(evt)
}
