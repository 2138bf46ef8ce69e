package models

import (
	"testing"
	"time"

	sj "github.com/brianvoe/sjwt"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenExpiryFromClaim(t *testing.T) {
	expiresAt := time.Now().Add(45 * time.Minute)

	claims := sj.New()
	claims.SetExpiresAt(expiresAt)
	access := claims.Generate([]byte("upstream-secret"))

	// expires_in disagrees with the claim; the claim wins
	bt := NewBearerToken(access, "Bearer", 60)

	require.True(t, bt.Valid())
	require.WithinDuration(t, expiresAt, bt.ExpiresAt, 5*time.Second)
}

func TestBearerTokenOpaqueFallback(t *testing.T) {
	bt := NewBearerToken("not-a-jwt", "Bearer", 3600)

	require.True(t, bt.Valid())
	require.WithinDuration(t, time.Now().Add(time.Hour), bt.ExpiresAt, 5*time.Second)
}

func TestBearerTokenExpired(t *testing.T) {
	claims := sj.New()
	claims.SetExpiresAt(time.Now().Add(-time.Minute))
	access := claims.Generate([]byte("upstream-secret"))

	bt := NewBearerToken(access, "Bearer", 3600)
	require.False(t, bt.Valid())
}

func TestBearerTokenEmptyInvalid(t *testing.T) {
	var bt BearerToken
	require.False(t, bt.Valid())
}

func TestProfileIdentifier(t *testing.T) {
	evt := CanonicalEvent{Properties: map[string]any{"id": "user-1"}}
	id, ok := evt.ProfileIdentifier()
	require.True(t, ok)
	require.Equal(t, "user-1", id)

	evt = CanonicalEvent{Properties: map[string]any{"id": 42}}
	_, ok = evt.ProfileIdentifier()
	require.False(t, ok)

	evt = CanonicalEvent{Properties: map[string]any{}}
	_, ok = evt.ProfileIdentifier()
	require.False(t, ok)

	evt = CanonicalEvent{}
	_, ok = evt.ProfileIdentifier()
	require.False(t, ok)
}
