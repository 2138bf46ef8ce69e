package session

import (
	"sync"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/events"
	"consolebridge/internal/models"
	"consolebridge/internal/token"
)

// Registry tracks every open session by id. Sessions are fully
// independent of one another; the registry owns the map and the one
// shared token exchanger, so concurrent opens for the same identity
// coalesce into a single exchange.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	exchanger *token.Exchanger
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		exchanger: token.NewExchanger(),
	}
}

// Open loads the tenant's stored secondary identity, builds a session
// around it, and starts the bridge.
func (r *Registry) Open(operator, tenantID, channelID string) (*Session, errmsg.StatusError) {
	var identity models.TenantCredential
	if serr := identity.Get(tenantID); serr != errmsg.EmptyStatusError {
		return nil, serr
	}

	s := newSession(operator, identity, channelID, r.exchanger)
	s.start()

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	if events.Em != nil {
		events.Em.SessionOpened(operator, s.ID, tenantID, channelID)
	}

	return s, errmsg.EmptyStatusError
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Close tears the session down and forgets it. Closing an unknown or
// already-closed session is not an error.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return
	}

	s.Teardown()

	if events.Em != nil {
		events.Em.SessionClosed(s.Operator, s.ID)
	}
}

// CloseAll tears down every open session, for drain/shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Teardown()
	}
}
