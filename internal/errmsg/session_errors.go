package errmsg

import "net/http"

var (
	SessionNotExists = NewStatusError(
		http.StatusNotFound,
		"session does not exist",
	)
	SessionInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"tenantID and channelID must be provided",
	)
	SessionEventNotExists = NewStatusError(
		http.StatusNotFound,
		"no event with this messageID in the session log",
	)
	SessionNoSelection = NewStatusError(
		http.StatusNotFound,
		"no event is currently selected",
	)
)
