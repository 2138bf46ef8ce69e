package errmsg

import "net/http"

var (
	ProfileLookupFailed = NewStatusError(
		http.StatusBadGateway,
		"profile lookup failed",
	)
	ProfileNoIdentifier = NewStatusError(
		http.StatusNotFound,
		"selected event carries no profile identifier",
	)
)
