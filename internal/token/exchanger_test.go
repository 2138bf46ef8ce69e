package token

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/models"

	sj "github.com/brianvoe/sjwt"
	"github.com/stretchr/testify/require"
)

const storedHash = "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"

func testIdentity() models.TenantCredential {
	return models.TenantCredential{
		TenantID:   "tenant-1",
		Username:   "live-reader",
		SecretHash: storedHash,
	}
}

func testExchanger(url string) *Exchanger {
	return &Exchanger{
		URL:          url,
		ClientID:     "console",
		ClientSecret: "console-secret",
	}
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := sj.New()
	claims.SetExpiresAt(expiresAt)

	return claims.Generate([]byte("upstream-secret"))
}

func TestAcquireReturnsFutureExpiry(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute)
	access := signedToken(t, expiresAt)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "password", r.Form.Get("grant_type"))
		require.Equal(t, "live-reader", r.Form.Get("username"))
		// the stored hash travels as-is, never re-hashed
		require.Equal(t, storedHash, r.Form.Get("password"))
		require.Equal(t, "console", r.Form.Get("client_id"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": access,
			"token_type":   "Bearer",
			"expires_in":   1800,
		})
	}))
	defer srv.Close()

	bearer, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.EmptyStatusError, serr)

	require.Equal(t, access, bearer.Value)
	require.True(t, bearer.Valid())
	require.WithinDuration(t, expiresAt, bearer.ExpiresAt, 5*time.Second)
}

func TestAcquireOpaqueTokenFallsBackToExpiresIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "opaque-value",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	bearer, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.EmptyStatusError, serr)
	require.True(t, bearer.Valid())
	require.WithinDuration(t, time.Now().Add(time.Hour), bearer.ExpiresAt, 5*time.Second)
}

func TestAcquireInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	bearer, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.TokenInvalidCredentials, serr)
	require.Empty(t, bearer.Value)
}

func TestAcquireEndpointUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.TokenEndpointUnavailable, serr)
}

func TestAcquireMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer srv.Close()

	_, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.TokenMalformedResponse, serr)
}

func TestAcquireMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token_type": "Bearer"})
	}))
	defer srv.Close()

	_, serr := testExchanger(srv.URL).Acquire(testIdentity())
	require.Equal(t, errmsg.TokenMalformedResponse, serr)
}

func TestAcquireCoalescesConcurrentCallers(t *testing.T) {
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "shared-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	ex := testExchanger(srv.URL)
	identity := testIdentity()

	const callers = 8

	var wg sync.WaitGroup
	tokens := make([]models.BearerToken, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bearer, serr := ex.Acquire(identity)
			require.Equal(t, errmsg.EmptyStatusError, serr)
			tokens[i] = bearer
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(1), hits.Load())
	for _, bearer := range tokens {
		require.Equal(t, "shared-token", bearer.Value)
	}
}
