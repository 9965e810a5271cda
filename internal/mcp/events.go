package mcp

import (
	"sync"
	"time"

	"enigma/internal/logging"
)

// Event is one entry in the server's activity log.
type Event struct {
	Timestamp string            `json:"ts"`
	Kind      string            `json:"kind"`
	SessionID string            `json:"session_id,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// EventLog is a thread-safe, append-only record of configure, convert and
// reload activity.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends an event stamped with the current UTC time.
func (l *EventLog) Emit(kind, sessionID string, detail map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Kind:      kind,
		SessionID: sessionID,
		Detail:    detail,
	})
}

// Since returns a copy of the events from index idx onward.
func (l *EventLog) Since(idx int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 {
		logging.New("mcp").Warn("events requested from negative index, clamping to 0", "index", idx)
		idx = 0
	}
	if idx >= len(l.events) {
		return nil
	}
	out := make([]Event, len(l.events)-idx)
	copy(out, l.events[idx:])
	return out
}

// Len returns the number of events recorded.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
