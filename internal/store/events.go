// Package store holds the in-memory persistence seams around the
// matching core: the append-only event log and the trade tape. The
// core itself never touches these; the sequencer owns them.
package store

import (
	"sync"

	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// EventLog is a thread-safe append-only log of domain events, keyed by
// book. Replaying a book's log from the start reconstructs its current
// snapshot.
type EventLog struct {
	mu     sync.RWMutex
	events map[domain.BookID][]event.Event
}

// NewEventLog creates an empty EventLog.
func NewEventLog() *EventLog {
	return &EventLog{
		events: make(map[domain.BookID][]event.Event),
	}
}

// Append adds a transaction's events to the book's log in order.
func (l *EventLog) Append(id domain.BookID, events ...event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[id] = append(l.events[id], events...)
}

// All returns the book's full event stream in append order. Returns a
// copy to avoid callers mutating the internal slice.
func (l *EventLog) All(id domain.BookID) []event.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.events[id]
	result := make([]event.Event, len(events))
	copy(result, events)
	return result
}

// Len returns the number of events logged for a book.
func (l *EventLog) Len(id domain.BookID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events[id])
}
