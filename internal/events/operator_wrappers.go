package events

import "consolebridge/internal/models"

func (e *Emitter) OperatorLogin(operatorID string) {
	evt := models.Event{
		Action: "operator.login",

		ActorRole: ActorOperator,
		ActorID:   operatorID,

		TargetType: TargetOperator,
		TargetID:   operatorID,

		Props: nil,
	}

	e.Emit(evt)
}

func (e *Emitter) CredentialSaved(operatorID string, tenantID string) {
	evt := models.Event{
		Action: "credential.saved",

		ActorRole: ActorOperator,
		ActorID:   operatorID,

		TargetType: TargetTenant,
		TargetID:   tenantID,

		Props: nil,
	}

	e.Emit(evt)
}
