package normalize

import (
	"encoding/json"
	"testing"

	"consolebridge/internal/models"

	"github.com/stretchr/testify/require"
)

func TestBatchSingleRecord(t *testing.T) {
	n := New()

	payload := json.RawMessage(`{
		"data": {"messageId": "m1", "name": "login"},
		"ts": "2024-01-01T00:00:00Z",
		"type": "track",
		"userId": "u1"
	}`)

	events := n.Batch(payload)
	require.Len(t, events, 1)

	evt := events[0]
	require.Equal(t, "m1", evt.MessageID)
	require.Equal(t, "track", evt.Type)
	require.Equal(t, "login", evt.Name)
	require.Equal(t, "u1", evt.UserID)
	require.Equal(t, "2024-01-01T00:00:00Z", evt.Timestamp)
	require.False(t, evt.Synthesized)
	require.Equal(t, int64(0), n.Gaps())
}

func TestBatchArrayFlattens(t *testing.T) {
	n := New()

	payload := json.RawMessage(`[
		{"data": {"messageId": "m1", "name": "a"}, "ts": "2024-01-01T00:00:00Z", "type": "track"},
		{"data": {"messageId": "m2", "name": "b"}, "ts": "2024-01-01T00:00:01Z", "type": "page"},
		{"data": {"messageId": "m3", "name": "c"}, "ts": "2024-01-01T00:00:02Z", "type": "identify"}
	]`)

	events := n.Batch(payload)
	require.Len(t, events, 3)
	require.Equal(t, "m1", events[0].MessageID)
	require.Equal(t, "m2", events[1].MessageID)
	require.Equal(t, "m3", events[2].MessageID)
}

func TestBatchMalformedEntryDoesNotAbort(t *testing.T) {
	n := New()

	// middle record carries nothing usable; the batch count must hold
	payload := json.RawMessage(`[
		{"data": {"messageId": "m1"}, "ts": "2024-01-01T00:00:00Z", "type": "track"},
		{"bogus": 42},
		{"data": {"messageId": "m3"}, "ts": "2024-01-01T00:00:02Z", "type": "screen"}
	]`)

	events := n.Batch(payload)
	require.Len(t, events, 3)

	require.Equal(t, "m1", events[0].MessageID)
	require.True(t, events[1].Synthesized)
	require.NotEmpty(t, events[1].MessageID)
	require.Equal(t, models.EventTypeUnknown, events[1].Type)
	require.Equal(t, "m3", events[2].MessageID)

	require.Equal(t, int64(1), n.Gaps())
}

func TestFallbackChains(t *testing.T) {
	n := New()

	evt := n.Record(json.RawMessage(`{
		"eventType": "page",
		"eventName": "pricing",
		"ts": "2024-05-05T10:00:00Z"
	}`))

	require.Equal(t, "page", evt.Type)
	require.Equal(t, "pricing", evt.Name)
	require.Equal(t, "", evt.UserID)
	require.NotNil(t, evt.Properties)
	require.Empty(t, evt.Properties)
}

func TestRecordPrefersDataFields(t *testing.T) {
	n := New()

	evt := n.Record(json.RawMessage(`{
		"type": "track",
		"eventType": "page",
		"eventName": "fallback",
		"ts": "2024-05-05T10:00:00Z",
		"data": {"messageId": "m9", "name": "primary", "plan": "pro"}
	}`))

	require.Equal(t, "track", evt.Type)
	require.Equal(t, "primary", evt.Name)
	require.Equal(t, "m9", evt.MessageID)
	require.Equal(t, "pro", evt.Properties["plan"])
}

func TestSynthesizedIDsAreUniqueWithinSession(t *testing.T) {
	n := New()

	a := n.Record(json.RawMessage(`{"ts": "2024-01-01T00:00:00Z"}`))
	b := n.Record(json.RawMessage(`{"ts": "2024-01-01T00:00:01Z"}`))

	require.True(t, a.Synthesized)
	require.True(t, b.Synthesized)
	require.NotEqual(t, a.MessageID, b.MessageID)
	require.Equal(t, int64(2), n.Gaps())
}

func TestMissingTimestampStamped(t *testing.T) {
	n := New()

	evt := n.Record(json.RawMessage(`{"type": "track", "data": {"messageId": "m1"}}`))

	require.True(t, evt.Synthesized)
	require.NotEmpty(t, evt.Timestamp)
	require.Equal(t, int64(1), n.Gaps())
}
