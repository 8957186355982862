/*
Package chat contains the core logic of the single shared chat room.

This file defines the History, the append-only capacity-bounded log of
chat events shared by every connection. New joiners receive a snapshot
of it as scrollback.
*/
package chat

import "sync"

// DefaultHistoryLimit is how many recent events the room retains.
const DefaultHistoryLimit = 100

// History is the ordered, size-bounded shared message log.
// Appends are mutually exclusive; snapshots are point-in-time copies.
type History struct {
	mu     sync.RWMutex
	events []ChatEvent
	limit  int
}

// NewHistory creates a log retaining up to limit events.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		events: make([]ChatEvent, 0, limit),
		limit:  limit,
	}
}

// Append adds an event at the tail, evicting from the head when the
// capacity is exceeded. Insertion order is preserved.
func (h *History) Append(event ChatEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, event)
	if len(h.events) > h.limit {
		excess := len(h.events) - h.limit
		h.events = h.events[excess:]
	}
}

// Snapshot returns a copy of the current contents in insertion order.
// The copy is detached: later appends do not leak into it.
func (h *History) Snapshot() []ChatEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make([]ChatEvent, len(h.events))
	copy(snapshot, h.events)
	return snapshot
}

// Len returns the current number of retained events.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.events)
}
