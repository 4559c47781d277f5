// Package engine implements the matching core: command validation,
// the price-time-priority matching algorithm, mass-quote
// cancel-and-replace, and the Transaction each command produces.
//
// The engine is purely functional over immutable book snapshots. It
// performs no I/O, holds no state beyond its configured rules, and
// assumes the caller serialises commands per book; distinct books may
// be processed in parallel freely.
package engine

import (
	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// Command is an intent against one book: place an order or place a
// mass quote. Commands are immutable values constructed once per
// request.
type Command interface {
	BookID() domain.BookID

	// validate returns the rejection event for the command, or nil
	// when the command is accepted. Pure; never touches the book.
	validate(rules Rules, b *book.Books) event.Event

	// execute runs the accepted command against the snapshot.
	// Callers must have validated first.
	execute(rules Rules, b *book.Books) *Transaction
}

// Engine applies commands under a fixed set of trading rules.
type Engine struct {
	rules Rules
}

// New creates an engine with the given rules.
func New(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Validate runs only the validation step. It returns the rejection
// event the command would produce, or nil when it would be accepted.
func (e *Engine) Validate(cmd Command, b *book.Books) event.Event {
	return cmd.validate(e.rules, b)
}

// Process validates and applies one command, returning the resulting
// Transaction. A rejection produces a single rejected event and a
// snapshot whose entries are untouched; an acceptance produces the
// fills, book changes and confirmation the command caused. The book
// handed in is never modified.
func (e *Engine) Process(cmd Command, b *book.Books) *Transaction {
	if rej := cmd.validate(e.rules, b); rej != nil {
		tb := newTxnBuilder(b)
		tb.emit(rej)
		return tb.build()
	}
	return cmd.execute(e.rules, b)
}
