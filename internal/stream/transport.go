package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fasthttp/websocket"
)

// ErrAuthRejected marks a connection severed specifically because the
// bearer token was not accepted, either at handshake or mid-stream.
// Callers must not blindly retry with the same token.
var ErrAuthRejected = errors.New("stream: authentication rejected")

// Conn is the slice of a websocket connection the supervisor needs.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Frame is the upstream message envelope. The server pushes
// `live_events` frames; the client emits `subscribe` / `unsubscribe`.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribePayload identifies the logical channel of a subscription.
type SubscribePayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

const (
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameLiveEvents  = "live_events"
)

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *wsConn) WriteJSON(v any) error {
	return w.conn.WriteJSON(v)
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// dialWebSocket opens the transport. The token travels as a query
// parameter on the URL; the handshake is parameter-driven, so a 401 or
// 403 response here means the token itself was refused.
func dialWebSocket(rawURL string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		if resp != nil &&
			(resp.StatusCode == http.StatusUnauthorized ||
				resp.StatusCode == http.StatusForbidden) {
			return nil, ErrAuthRejected
		}
		return nil, err
	}

	return &wsConn{conn: conn}, nil
}

// closeCodeAuthRejected is the application close code some upstreams
// use instead of 1008 for token expiry mid-stream.
const closeCodeAuthRejected = 4401

func isAuthRejection(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrAuthRejected) {
		return true
	}

	if websocket.IsCloseError(err,
		websocket.ClosePolicyViolation,
		closeCodeAuthRejected,
	) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unauthorized")
}
