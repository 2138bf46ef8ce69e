package profile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"consolebridge/internal/errmsg"

	"github.com/stretchr/testify/require"
)

func testCorrelator(url string) *Correlator {
	return &Correlator{
		URL:      url,
		Campaign: "camp-1",
		AuthKey:  "auth-key-1",
	}
}

func TestFetchCommitsForCurrentSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "camp-1", q.Get("campaign"))
		require.Equal(t, "auth-key-1", q.Get("auth_key"))
		require.Equal(t, "none", q.Get("lock_type"))
		require.Equal(t, "profile", q.Get("lookup"))

		fmt.Fprintf(w, `{"profile": {"id": %q}}`, q.Get("key"))
	}))
	defer srv.Close()

	co := testCorrelator(srv.URL)
	co.SelectionChanged("user-9")

	require.Eventually(t, func() bool {
		record, _ := co.Current()
		return record != nil
	}, 2*time.Second, 5*time.Millisecond)

	record, serr := co.Current()
	require.Equal(t, errmsg.EmptyStatusError, serr)

	var doc struct {
		Profile struct {
			ID string `json:"id"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(record, &doc))
	require.Equal(t, "user-9", doc.Profile.ID)
}

func TestStaleResultNeverDisplayed(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "stale" {
			<-release
		}
		fmt.Fprintf(w, `{"for": %q}`, key)
	}))
	defer srv.Close()

	co := testCorrelator(srv.URL)

	// fetch for the first selection hangs at the server
	co.SelectionChanged("stale")

	// the user moves on before it completes
	co.SelectionChanged("current")

	require.Eventually(t, func() bool {
		record, _ := co.Current()
		return record != nil
	}, 2*time.Second, 5*time.Millisecond)

	// now the stale response lands
	close(release)
	time.Sleep(100 * time.Millisecond)

	record, serr := co.Current()
	require.Equal(t, errmsg.EmptyStatusError, serr)

	var doc struct {
		For string `json:"for"`
	}
	require.NoError(t, json.Unmarshal(record, &doc))
	require.Equal(t, "current", doc.For)
}

func TestEmptyIdentifierClearsAndSkipsFetch(t *testing.T) {
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"some": "profile"}`)
	}))
	defer srv.Close()

	co := testCorrelator(srv.URL)

	co.SelectionChanged("user-1")
	require.Eventually(t, func() bool {
		record, _ := co.Current()
		return record != nil
	}, 2*time.Second, 5*time.Millisecond)

	before := hits.Load()

	// selecting an event without an identifier clears the panel
	co.SelectionChanged("")

	record, serr := co.Current()
	require.Nil(t, record)
	require.Equal(t, errmsg.EmptyStatusError, serr)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, before, hits.Load())
}

func TestLookupFailureScopedToPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	co := testCorrelator(srv.URL)
	co.SelectionChanged("user-1")

	require.Eventually(t, func() bool {
		_, serr := co.Current()
		return serr != errmsg.EmptyStatusError
	}, 2*time.Second, 5*time.Millisecond)

	_, serr := co.Current()
	require.Equal(t, errmsg.ProfileLookupFailed, serr)

	// the error is dismissible without touching the selection
	co.ClearError()
	_, serr = co.Current()
	require.Equal(t, errmsg.EmptyStatusError, serr)
}

func TestReselectionRefetches(t *testing.T) {
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"some": "profile"}`)
	}))
	defer srv.Close()

	co := testCorrelator(srv.URL)

	co.SelectionChanged("user-1")
	require.Eventually(t, func() bool {
		record, _ := co.Current()
		return record != nil
	}, 2*time.Second, 5*time.Millisecond)

	// no caching across re-selections: same identifier fetches again
	co.SelectionChanged("user-1")
	require.Eventually(t, func() bool {
		return hits.Load() == 2
	}, 2*time.Second, 5*time.Millisecond)
}
