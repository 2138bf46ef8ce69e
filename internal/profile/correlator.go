package profile

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"consolebridge/internal/env"
	"consolebridge/internal/errmsg"

	"github.com/valyala/fasthttp"
)

const lookupTimeout = 10 * time.Second

// Correlator fetches the profile record correlated with the selected
// event. Every selection change supersedes any in-flight fetch: results
// commit only if their generation is still current, so a late response
// for a stale selection is discarded, never displayed.
type Correlator struct {
	URL      string
	Campaign string
	AuthKey  string

	client *fasthttp.Client

	mu         sync.Mutex
	generation int64
	identifier string
	record     json.RawMessage
	lastErr    errmsg.StatusError
}

func NewCorrelator() *Correlator {
	return &Correlator{
		URL:      env.PROFILE_URL,
		Campaign: env.PROFILE_CAMPAIGN,
		AuthKey:  env.PROFILE_AUTH_KEY,
		client:   &fasthttp.Client{},
	}
}

// SelectionChanged reacts to a new selection. An empty identifier means
// the selected event carries no identifying field: any displayed
// profile is cleared and no fetch happens. Otherwise the previous
// fetch, if still in flight, is superseded and a new one starts.
func (co *Correlator) SelectionChanged(identifier string) {
	co.mu.Lock()
	co.generation++
	gen := co.generation
	co.identifier = identifier
	co.record = nil
	co.lastErr = errmsg.EmptyStatusError
	co.mu.Unlock()

	if identifier == "" {
		return
	}

	go co.fetch(gen, identifier)
}

// Current returns the committed profile for the current selection,
// along with any lookup error scoped to the profile panel.
func (co *Correlator) Current() (json.RawMessage, errmsg.StatusError) {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.record, co.lastErr
}

// ClearError dismisses a surfaced lookup error without touching the
// selection or the stream.
func (co *Correlator) ClearError() {
	co.mu.Lock()
	co.lastErr = errmsg.EmptyStatusError
	co.mu.Unlock()
}

func (co *Correlator) fetch(gen int64, identifier string) {
	record, serr := co.lookup(identifier)

	co.mu.Lock()
	defer co.mu.Unlock()

	// a newer selection superseded this fetch; drop the result
	if gen != co.generation || co.identifier != identifier {
		return
	}

	if serr != errmsg.EmptyStatusError {
		co.lastErr = serr
		return
	}

	co.record = record
}

func (co *Correlator) lookup(identifier string) (json.RawMessage, errmsg.StatusError) {
	q := url.Values{}
	q.Set("campaign", co.Campaign)
	q.Set("key", identifier)
	q.Set("lock_type", "none")
	q.Set("auth_key", co.AuthKey)
	q.Set("lookup", "profile")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(co.URL + "?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)

	client := co.client
	if client == nil {
		client = &fasthttp.Client{}
	}

	if err := client.DoTimeout(req, resp, lookupTimeout); err != nil {
		return nil, errmsg.ProfileLookupFailed
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, errmsg.ProfileLookupFailed
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	if !json.Valid(body) {
		return nil, errmsg.ProfileLookupFailed
	}

	return body, errmsg.EmptyStatusError
}
