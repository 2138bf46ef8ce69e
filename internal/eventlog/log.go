package eventlog

import (
	"sync"

	"consolebridge/internal/models"
)

// Log is the append-only, memory-resident event sequence for one
// viewing session, displayed newest-first. It carries at most one
// selection, by messageID. Entries only leave when the whole log is
// cleared on teardown, so a live selection always points at a live
// entry.
type Log struct {
	mu       sync.RWMutex
	entries  []models.CanonicalEvent // arrival order, oldest first
	selected string
}

func New() *Log {
	return &Log{}
}

// Append records an event in arrival order. Arrival order is display
// order; no timestamp sorting happens.
func (l *Log) Append(evt models.CanonicalEvent) {
	l.mu.Lock()
	l.entries = append(l.entries, evt)
	l.mu.Unlock()
}

// SelectFirstIfUnset makes the very first appended event the default
// selection. Later appends never move an existing selection.
func (l *Log) SelectFirstIfUnset() (models.CanonicalEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.selected != "" || len(l.entries) == 0 {
		return models.CanonicalEvent{}, false
	}

	l.selected = l.entries[0].MessageID
	return l.entries[0], true
}

// Select sets the selection to the event with the given messageID.
func (l *Log) Select(messageID string) (models.CanonicalEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, evt := range l.entries {
		if evt.MessageID == messageID {
			l.selected = messageID
			return evt, true
		}
	}

	return models.CanonicalEvent{}, false
}

// Selected returns the currently selected event, if any.
func (l *Log) Selected() (models.CanonicalEvent, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.selected == "" {
		return models.CanonicalEvent{}, false
	}

	for _, evt := range l.entries {
		if evt.MessageID == l.selected {
			return evt, true
		}
	}

	return models.CanonicalEvent{}, false
}

// SelectedID returns the selected messageID, empty when unset.
func (l *Log) SelectedID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selected
}

// Len reports how many events the session has accumulated.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Snapshot returns a newest-first copy for display.
func (l *Log) Snapshot() []models.CanonicalEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.CanonicalEvent, len(l.entries))
	for i, evt := range l.entries {
		out[len(l.entries)-1-i] = evt
	}

	return out
}

// Clear discards the whole log and its selection on teardown.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.selected = ""
	l.mu.Unlock()
}
