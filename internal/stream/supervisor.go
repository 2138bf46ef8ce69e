package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"

	"consolebridge/internal/env"
)

// ErrRetriesExhausted is returned by Run when transient reconnection
// attempts hit the policy cap.
var ErrRetriesExhausted = errors.New("stream: reconnection attempts exhausted")

// State of the supervised connection.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticating
	StateSubscribed
	StateReconnecting
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribed:
		return "subscribed"
	case StateReconnecting:
		return "reconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Supervisor owns the lifecycle of one streaming connection: dial,
// handshake, delayed subscribe, read loop, bounded reconnection, and
// symmetric unsubscribe+disconnect on teardown.
type Supervisor struct {
	URL         string
	ChannelID   string
	ChannelType string

	Policy ReconnectPolicy

	// Grace is the pause between the handshake completing and the
	// subscribe frame going out, so the subscribe never races the
	// server's post-handshake setup.
	Grace time.Duration

	// OnBatch receives the payload of every live_events frame.
	OnBatch func(payload json.RawMessage)

	// OnState receives connectivity flips for the UI: a connected flag
	// plus an optional human-readable error.
	OnState func(connected bool, errText string)

	// OnFrame observes every inbound frame for diagnostics. It runs
	// before the semantic handlers and must never replace them.
	OnFrame func(event string, payload json.RawMessage)

	// test seams; zero values use the real transport and clock
	dial  func(rawURL string) (Conn, error)
	sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
	conn  Conn
	torn  bool
}

func NewSupervisor(channelID string) *Supervisor {
	return &Supervisor{
		URL:         env.STREAM_URL,
		ChannelID:   channelID,
		ChannelType: "source",
		Policy:      DefaultPolicy(),
		Grace:       env.STREAM_SUBSCRIBE_GRACE,
	}
}

// State returns the current connection state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run drives the connection until teardown or a terminal failure. It
// returns nil after a clean teardown, ErrAuthRejected when the upstream
// refuses the token (the caller re-exchanges and may call Run again
// with a fresh token), or ErrRetriesExhausted once transient retries
// hit the policy cap.
func (s *Supervisor) Run(ctx context.Context, token string) error {
	attempts := 0

	for {
		if s.tornDown() || ctx.Err() != nil {
			s.setState(StateDisconnected)
			return nil
		}

		s.setState(StateConnecting)

		conn, err := s.dialConn(token)
		if err != nil {
			if isAuthRejection(err) {
				s.setState(StateDisconnected)
				s.notify(false, ErrAuthRejected.Error())
				return ErrAuthRejected
			}

			attempts++
			if attempts > s.Policy.MaxAttempts {
				s.setState(StateDisconnected)
				s.notify(false, ErrRetriesExhausted.Error())
				return ErrRetriesExhausted
			}

			s.setState(StateReconnecting)
			s.notify(false, err.Error())

			if err := s.pause(ctx, s.Policy.Delay); err != nil {
				s.setState(StateDisconnected)
				return nil
			}
			continue
		}

		// The handshake accepting the token is the authentication step.
		s.setConn(conn)
		s.setState(StateAuthenticating)

		if err := s.pause(ctx, s.Grace); err != nil {
			s.dropConn()
			s.setState(StateDisconnected)
			return nil
		}

		if s.tornDown() {
			s.dropConn()
			s.setState(StateDisconnected)
			return nil
		}

		if err := conn.WriteJSON(subscribeFrameFor(s.ChannelID, s.ChannelType)); err != nil {
			s.dropConn()
			attempts++
			if attempts > s.Policy.MaxAttempts {
				s.setState(StateDisconnected)
				s.notify(false, ErrRetriesExhausted.Error())
				return ErrRetriesExhausted
			}
			s.setState(StateReconnecting)
			s.notify(false, err.Error())
			if err := s.pause(ctx, s.Policy.Delay); err != nil {
				s.setState(StateDisconnected)
				return nil
			}
			continue
		}

		s.setState(StateSubscribed)
		s.notify(true, "")
		attempts = 0

		readErr := s.readLoop(conn)
		s.dropConn()

		if s.tornDown() || ctx.Err() != nil {
			s.setState(StateDisconnected)
			return nil
		}

		if isAuthRejection(readErr) {
			s.setState(StateDisconnected)
			s.notify(false, ErrAuthRejected.Error())
			return ErrAuthRejected
		}

		attempts++
		if attempts > s.Policy.MaxAttempts {
			s.setState(StateDisconnected)
			s.notify(false, ErrRetriesExhausted.Error())
			return ErrRetriesExhausted
		}

		s.setState(StateReconnecting)
		if readErr != nil {
			s.notify(false, readErr.Error())
		} else {
			s.notify(false, "connection closed by server")
		}

		if err := s.pause(ctx, s.Policy.Delay); err != nil {
			s.setState(StateDisconnected)
			return nil
		}
	}
}

// Teardown unsubscribes and disconnects, in that order. Safe to call
// any number of times; only the first call writes the unsubscribe.
func (s *Supervisor) Teardown() {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.torn = true
	conn := s.conn
	subscribed := s.state == StateSubscribed
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		if subscribed {
			_ = conn.WriteJSON(unsubscribeFrameFor(s.ChannelID, s.ChannelType))
		}
		_ = conn.Close()
	}
}

func (s *Supervisor) readLoop(conn Conn) error {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			if s.OnFrame != nil {
				s.OnFrame("", json.RawMessage(data))
			}
			continue
		}

		// catch-all diagnostic observer sees everything
		if s.OnFrame != nil {
			s.OnFrame(frame.Event, frame.Payload)
		}

		switch frame.Event {
		case frameLiveEvents:
			if s.OnBatch != nil {
				s.OnBatch(frame.Payload)
			}
		}
	}
}

func (s *Supervisor) dialConn(token string) (Conn, error) {
	dial := s.dial
	if dial == nil {
		dial = dialWebSocket
	}

	return dial(authenticatedURL(s.URL, token))
}

// authenticatedURL attaches the bearer token as a query parameter. The
// transport's handshake is parameter-based; headers are not carried.
func authenticatedURL(rawURL, token string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	q.Set("authorization", token)
	u.RawQuery = q.Encode()

	return u.String()
}

func (s *Supervisor) pause(ctx context.Context, d time.Duration) error {
	if sleep := s.sleep; sleep != nil {
		return sleep(ctx, d)
	}

	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Supervisor) setConn(conn Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Supervisor) dropConn() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (s *Supervisor) tornDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torn
}

func (s *Supervisor) notify(connected bool, errText string) {
	if s.OnState != nil {
		s.OnState(connected, errText)
	}
}

func subscribeFrameFor(channelID, channelType string) Frame {
	payload, _ := json.Marshal(SubscribePayload{ID: channelID, Type: channelType})
	return Frame{Event: frameSubscribe, Payload: payload}
}

func unsubscribeFrameFor(channelID, channelType string) Frame {
	payload, _ := json.Marshal(SubscribePayload{ID: channelID, Type: channelType})
	return Frame{Event: frameUnsubscribe, Payload: payload}
}
