package token

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"consolebridge/internal/env"
	"consolebridge/internal/errmsg"
	"consolebridge/internal/models"

	"github.com/valyala/fasthttp"
)

const exchangeTimeout = 10 * time.Second

// Exchanger converts a tenant's stored secondary identity into a
// short-lived bearer token through a password-grant exchange. It never
// caches tokens; the owning session does.
type Exchanger struct {
	URL          string
	ClientID     string
	ClientSecret string

	client *fasthttp.Client

	mu       sync.Mutex
	inflight map[string]*exchange
}

// exchange is one in-flight request shared by every concurrent caller
// asking for the same identity.
type exchange struct {
	done chan struct{}

	token models.BearerToken
	serr  errmsg.StatusError
}

func NewExchanger() *Exchanger {
	return &Exchanger{
		URL:          env.IDENTITY_URL,
		ClientID:     env.IDENTITY_CLIENT_ID,
		ClientSecret: env.IDENTITY_CLIENT_SECRET,
		client:       &fasthttp.Client{},
		inflight:     make(map[string]*exchange),
	}
}

// Acquire performs the password-grant exchange for the given identity.
// Concurrent callers for the same identity share a single network
// request. The secret must already be in hashed form; Acquire sends it
// exactly as stored. There is no automatic retry: a failed exchange is
// returned to the caller, which decides whether retrying makes sense.
func (ex *Exchanger) Acquire(identity models.TenantCredential) (models.BearerToken, errmsg.StatusError) {
	key := identity.TenantID + "/" + identity.Username

	ex.mu.Lock()
	if ex.inflight == nil {
		ex.inflight = make(map[string]*exchange)
	}
	if call, ok := ex.inflight[key]; ok {
		ex.mu.Unlock()
		<-call.done
		return call.token, call.serr
	}

	call := &exchange{done: make(chan struct{})}
	ex.inflight[key] = call
	ex.mu.Unlock()

	call.token, call.serr = ex.exchange(identity)

	ex.mu.Lock()
	delete(ex.inflight, key)
	ex.mu.Unlock()

	close(call.done)

	return call.token, call.serr
}

func (ex *Exchanger) exchange(identity models.TenantCredential) (models.BearerToken, errmsg.StatusError) {
	form := url.Values{}
	form.Set("username", identity.Username)
	form.Set("password", identity.SecretHash)
	form.Set("grant_type", "password")
	form.Set("client_id", ex.ClientID)
	form.Set("client_secret", ex.ClientSecret)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(ex.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(form.Encode())

	client := ex.client
	if client == nil {
		client = &fasthttp.Client{}
	}

	if err := client.DoTimeout(req, resp, exchangeTimeout); err != nil {
		return models.BearerToken{}, errmsg.TokenEndpointUnavailable
	}

	status := resp.StatusCode()

	switch {
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return models.BearerToken{}, errmsg.TokenInvalidCredentials
	case status < 200 || status > 299:
		return models.BearerToken{}, errmsg.TokenEndpointUnavailable
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
		UID          string `json:"uid"`
	}

	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.BearerToken{}, errmsg.TokenMalformedResponse
	}

	if payload.AccessToken == "" {
		return models.BearerToken{}, errmsg.TokenMalformedResponse
	}

	return models.NewBearerToken(
		payload.AccessToken,
		payload.TokenType,
		payload.ExpiresIn,
	), errmsg.EmptyStatusError
}
