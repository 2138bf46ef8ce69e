package models

import (
	"time"

	sj "github.com/brianvoe/sjwt"
)

// BearerToken is the short-lived credential handed back by the identity
// exchange. It lives only inside the session that acquired it.
type BearerToken struct {
	Value     string    `json:"value"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the token can still authenticate a connection.
func (bt BearerToken) Valid() bool {
	return bt.Value != "" && time.Now().Before(bt.ExpiresAt)
}

// NewBearerToken derives the expiry from the access token's own exp
// claim when it is a decodable JWT, falling back to the endpoint's
// expires_in for opaque tokens.
func NewBearerToken(accessToken, tokenType string, expiresIn int64) BearerToken {
	bt := BearerToken{
		Value:     accessToken,
		TokenType: tokenType,
		ExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	if exp, ok := decodeExpiry(accessToken); ok {
		bt.ExpiresAt = exp
	}

	return bt
}

func decodeExpiry(accessToken string) (time.Time, bool) {
	claims, err := sj.Parse(accessToken)
	if err != nil {
		return time.Time{}, false
	}

	raw, err := claims.Get("exp")
	if err != nil {
		return time.Time{}, false
	}

	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case int:
		return time.Unix(int64(v), 0), true
	default:
		return time.Time{}, false
	}
}
