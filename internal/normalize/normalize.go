package normalize

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"consolebridge/internal/models"
)

// rawRecord is the upstream wrapper shape. Producers disagree on field
// names, so every field the canonical event needs has a fallback chain.
type rawRecord struct {
	Type      string          `json:"type"`
	EventType string          `json:"eventType"`
	EventName string          `json:"eventName"`
	TS        string          `json:"ts"`
	UserID    string          `json:"userId"`
	Data      json.RawMessage `json:"data"`
}

// Normalizer maps raw live_events payloads into canonical events. Gaps
// counts records that arrived without a messageID or timestamp and had
// one synthesized.
type Normalizer struct {
	seq  atomic.Int64
	gaps atomic.Int64
}

func New() *Normalizer {
	return &Normalizer{}
}

// Gaps reports how many records needed a synthesized field so far.
func (n *Normalizer) Gaps() int64 {
	return n.gaps.Load()
}

// Batch flattens a live_events payload — one wrapper or an array of
// wrappers — into canonical events. Every record normalizes
// independently: a malformed entry degrades to a synthesized event and
// never discards the rest of the batch.
func (n *Normalizer) Batch(payload json.RawMessage) []models.CanonicalEvent {
	if len(payload) == 0 {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		// single wrapper, not an array
		raws = []json.RawMessage{payload}
	}

	events := make([]models.CanonicalEvent, 0, len(raws))
	for _, raw := range raws {
		events = append(events, n.Record(raw))
	}

	return events
}

// Record normalizes one wrapper. Structurally absent fields fall
// through their chains; a record that cannot be decoded at all still
// yields an event so the batch count holds.
func (n *Normalizer) Record(raw json.RawMessage) models.CanonicalEvent {
	var rec rawRecord
	_ = json.Unmarshal(raw, &rec)

	evt := models.CanonicalEvent{
		Type:      eventType(rec),
		Timestamp: rec.TS,
		UserID:    rec.UserID,
	}

	var data map[string]any
	if len(rec.Data) > 0 {
		_ = json.Unmarshal(rec.Data, &data)
	}

	if data != nil {
		evt.Properties = data
		if name, ok := data["name"].(string); ok {
			evt.Name = name
		}
		if id, ok := data["messageId"].(string); ok {
			evt.MessageID = id
		}
	} else {
		evt.Properties = map[string]any{}
	}

	if evt.Name == "" {
		evt.Name = rec.EventName
	}

	if evt.MessageID == "" {
		evt.MessageID = fmt.Sprintf("gen-%d", n.seq.Add(1))
		evt.Synthesized = true
	}

	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
		evt.Synthesized = true
	}

	if evt.Synthesized {
		n.gaps.Add(1)
	}

	return evt
}

func eventType(rec rawRecord) string {
	switch {
	case rec.Type != "":
		return rec.Type
	case rec.EventType != "":
		return rec.EventType
	default:
		return models.EventTypeUnknown
	}
}
