package errmsg

import "net/http"

var (
	OperatorNotExists = NewStatusError(
		http.StatusNotFound,
		"operator does not exist",
	)
	OperatorNoToken = NewStatusError(
		http.StatusUnauthorized,
		"no token has been provided",
	)
	OperatorWrongPassword = NewStatusError(
		http.StatusUnauthorized,
		"username or password is incorrect",
	)
	OperatorInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"username and password must be provided",
	)
)

type _OperatorNotExists struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"operator does not exist"`
}

type _OperatorNoToken struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"no token has been provided"`
}

type _OperatorWrongPassword struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"username or password is incorrect"`
}

type _OperatorInvalidPayload struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"username and password must be provided"`
}
