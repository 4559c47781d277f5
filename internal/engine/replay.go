package engine

import (
	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// Replay folds an event stream onto a fresh book. Feeding it every
// event the sequencer ever logged for a book reconstructs the exact
// snapshot the last transaction produced: same entries, same ordering,
// same last event id.
func Replay(id domain.BookID, events []event.Event) *book.Books {
	b := book.New(id)
	for _, ev := range events {
		b = ev.Apply(b)
	}
	return b
}
