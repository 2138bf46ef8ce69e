package errmsg

import "net/http"

var (
	CredentialNotExists = NewStatusError(
		http.StatusNotFound,
		"no credentials stored for this tenant",
	)
	CredentialInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"username and hashed secret must be provided",
	)
	CredentialRawSecret = NewStatusError(
		http.StatusBadRequest,
		"secret must be submitted in hashed form",
	)
)
