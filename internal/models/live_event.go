package models

// CanonicalEvent is the uniform representation of one inbound live
// event record. Constructed once by the normalizer, immutable after.
type CanonicalEvent struct {
	MessageID  string         `json:"messageID"`
	Timestamp  string         `json:"timestamp"`
	Type       string         `json:"type"`
	UserID     string         `json:"userID"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`

	// Synthesized marks events whose messageID or timestamp had to be
	// generated because the raw record lacked them.
	Synthesized bool `json:"synthesized,omitempty"`
}

// Known event type tags. Anything else passes through verbatim, with
// EventTypeUnknown reserved for records carrying no type at all.
const (
	EventTypeTrack    = "track"
	EventTypePage     = "page"
	EventTypeIdentify = "identify"
	EventTypeScreen   = "screen"
	EventTypeUnknown  = "unknown"
)

// ProfileIdentifier extracts the field the profile correlator keys on.
// Missing or non-string values mean no correlation happens.
func (ce CanonicalEvent) ProfileIdentifier() (string, bool) {
	if ce.Properties == nil {
		return "", false
	}

	raw, ok := ce.Properties["id"]
	if !ok {
		return "", false
	}

	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
