package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/eventlog"
	"consolebridge/internal/events"
	"consolebridge/internal/models"
	"consolebridge/internal/normalize"
	"consolebridge/internal/profile"
	"consolebridge/internal/stream"
	"consolebridge/internal/token"

	"github.com/google/uuid"
)

// Session is one operator's live view on one tenant channel: its own
// bearer token, its own supervised connection, its own in-memory event
// log. Two open views never share any of these; only the token
// exchanger is shared, registry-wide, so simultaneous views for the
// same identity coalesce into one exchange.
type Session struct {
	ID        string
	TenantID  string
	ChannelID string
	Operator  string

	exchanger  *token.Exchanger
	supervisor *stream.Supervisor
	normalizer *normalize.Normalizer
	log        *eventlog.Log
	correlator *profile.Correlator

	// test seam, defaults to supervisor.Run
	runStream func(ctx context.Context, token string) error

	identity models.TenantCredential

	cancel   context.CancelFunc
	teardown sync.Once

	mu        sync.Mutex
	connected bool
	lastError string
	subs      map[chan Update]struct{}
}

// Update is one frame pushed to the console UI over the live socket.
type Update struct {
	Kind string `json:"kind"` // "event" | "status"

	Event *models.CanonicalEvent `json:"event,omitempty"`

	Connected bool   `json:"connected,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Status is the session summary the console polls.
type Status struct {
	Connected         bool   `json:"connected"`
	State             string `json:"state"`
	LastError         string `json:"lastError"`
	EventCount        int    `json:"eventCount"`
	Selected          string `json:"selected"`
	NormalizationGaps int64  `json:"normalizationGaps"`
}

func newSession(operator string, identity models.TenantCredential, channelID string, exchanger *token.Exchanger) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		TenantID:  identity.TenantID,
		ChannelID: channelID,
		Operator:  operator,

		exchanger:  exchanger,
		supervisor: stream.NewSupervisor(channelID),
		normalizer: normalize.New(),
		log:        eventlog.New(),
		correlator: profile.NewCorrelator(),

		identity: identity,
		subs:     make(map[chan Update]struct{}),
	}

	s.supervisor.OnBatch = s.onBatch
	s.supervisor.OnState = s.onState
	s.runStream = s.supervisor.Run

	return s
}

// start acquires a token and supervises the connection until teardown.
func (s *Session) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	bearer, serr := s.exchanger.Acquire(s.identity)
	if serr != errmsg.EmptyStatusError {
		s.onState(false, serr.Message)
		return
	}

	err := s.runStream(ctx, bearer.Value)

	// One auth rejection mid-stream means the token aged out: exchange
	// once more and reconnect. A second rejection is terminal so bad
	// credentials never loop.
	if errors.Is(err, stream.ErrAuthRejected) {
		if events.Em != nil {
			events.Em.StreamAuthRejected(s.ID, s.TenantID)
		}

		bearer, serr = s.exchanger.Acquire(s.identity)
		if serr != errmsg.EmptyStatusError {
			s.onState(false, serr.Message)
			return
		}

		err = s.runStream(ctx, bearer.Value)
		if errors.Is(err, stream.ErrAuthRejected) {
			s.onState(false, errmsg.StreamAuthRejected.Message)
			return
		}
	}

	if errors.Is(err, stream.ErrRetriesExhausted) {
		s.onState(false, errmsg.StreamConnectionFailed.Message)
	}
}

func (s *Session) onBatch(payload json.RawMessage) {
	for _, evt := range s.normalizer.Batch(payload) {
		s.log.Append(evt)

		if first, ok := s.log.SelectFirstIfUnset(); ok {
			s.applySelection(first)
		}

		e := evt
		s.broadcast(Update{Kind: "event", Event: &e})
	}
}

func (s *Session) onState(connected bool, errText string) {
	s.mu.Lock()
	s.connected = connected
	if errText != "" {
		s.lastError = errText
	} else if connected {
		s.lastError = ""
	}
	s.mu.Unlock()

	s.broadcast(Update{Kind: "status", Connected: connected, Error: errText})
}

// Select makes messageID the current selection and re-keys the profile
// correlation on it.
func (s *Session) Select(messageID string) errmsg.StatusError {
	evt, ok := s.log.Select(messageID)
	if !ok {
		return errmsg.SessionEventNotExists
	}

	s.applySelection(evt)

	return errmsg.EmptyStatusError
}

func (s *Session) applySelection(evt models.CanonicalEvent) {
	if id, ok := evt.ProfileIdentifier(); ok {
		s.correlator.SelectionChanged(id)
	} else {
		s.correlator.SelectionChanged("")
	}
}

// Events returns the newest-first log snapshot.
func (s *Session) Events() []models.CanonicalEvent {
	return s.log.Snapshot()
}

// Profile returns the committed profile for the current selection.
func (s *Session) Profile() (json.RawMessage, errmsg.StatusError) {
	if s.log.SelectedID() == "" {
		return nil, errmsg.SessionNoSelection
	}

	record, serr := s.correlator.Current()
	if serr != errmsg.EmptyStatusError {
		return nil, serr
	}

	if record == nil {
		return nil, errmsg.ProfileNoIdentifier
	}

	return record, errmsg.EmptyStatusError
}

func (s *Session) Status() Status {
	s.mu.Lock()
	connected := s.connected
	lastError := s.lastError
	s.mu.Unlock()

	return Status{
		Connected:         connected,
		State:             s.supervisor.State().String(),
		LastError:         lastError,
		EventCount:        s.log.Len(),
		Selected:          s.log.SelectedID(),
		NormalizationGaps: s.normalizer.Gaps(),
	}
}

// Subscribe attaches a UI consumer. Sends never block: a slow consumer
// misses frames rather than stalling the bridge.
func (s *Session) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 64)

	s.mu.Lock()
	if s.subs == nil {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		if s.subs != nil {
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Session) broadcast(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Teardown unsubscribes and disconnects the upstream, discards the log,
// supersedes any in-flight correlation, and closes UI subscribers.
// Idempotent: repeat calls are no-ops.
func (s *Session) Teardown() {
	s.teardown.Do(func() {
		s.supervisor.Teardown()
		if s.cancel != nil {
			s.cancel()
		}

		s.log.Clear()
		s.correlator.SelectionChanged("")

		s.mu.Lock()
		subs := s.subs
		s.subs = nil
		s.mu.Unlock()

		for ch := range subs {
			close(ch)
		}
	})
}
