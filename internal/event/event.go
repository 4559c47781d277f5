// Package event defines the closed set of domain events the matching
// core emits. Events are immutable facts: they are the only artifacts
// persisted or published, and replaying them in order rebuilds the
// exact book snapshot each transaction produced.
package event

import (
	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
)

// Kind discriminates the event variants.
type Kind string

const (
	KindOrderPlaced        Kind = "order_placed"
	KindOrderRejected      Kind = "order_rejected"
	KindTrade              Kind = "trade"
	KindEntryAdded         Kind = "entry_added"
	KindMassQuotePlaced    Kind = "mass_quote_placed"
	KindMassQuoteRejected  Kind = "mass_quote_rejected"
	KindMassQuoteCancelled Kind = "mass_quote_cancelled"
)

// Event is one immutable fact about a book. Apply folds the event into
// a snapshot; applying a transaction's events in order onto the prior
// snapshot reproduces the transaction's resulting snapshot.
type Event interface {
	BookID() domain.BookID
	EventID() domain.EventID
	Kind() Kind
	Apply(*book.Books) *book.Books
}
