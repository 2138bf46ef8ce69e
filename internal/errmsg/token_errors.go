package errmsg

import "net/http"

// Token exchange failures, one per AuthFailure reason. The exchange
// endpoint's own status codes are folded into these three buckets so
// callers can branch without string matching.
var (
	TokenInvalidCredentials = NewStatusError(
		http.StatusUnauthorized,
		"identity endpoint rejected the stored credentials",
	)
	TokenEndpointUnavailable = NewStatusError(
		http.StatusBadGateway,
		"identity endpoint is unavailable",
	)
	TokenMalformedResponse = NewStatusError(
		http.StatusBadGateway,
		"identity endpoint returned a malformed token response",
	)
)
