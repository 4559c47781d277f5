package engine

import (
	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// Transaction is the unit of work one command produces: the resulting
// book snapshot plus the ordered events that derived it. The caller
// exclusively owns a returned Transaction; the engine keeps no
// reference. Events are the only mutator: the snapshot is always the
// fold of the events over the prior snapshot, which is what makes the
// log replayable.
type Transaction struct {
	Books  *book.Books
	Events []event.Event
}

// Trades returns the fill events of the transaction in order.
func (t *Transaction) Trades() []event.Trade {
	var out []event.Trade
	for _, ev := range t.Events {
		if trade, ok := ev.(event.Trade); ok {
			out = append(out, trade)
		}
	}
	return out
}

// Rejected reports whether the command was refused, and with what.
func (t *Transaction) Rejected() (domain.Rejection, bool) {
	for _, ev := range t.Events {
		switch rej := ev.(type) {
		case event.OrderRejected:
			return domain.Rejection{Reason: rej.Reason, Text: rej.Text}, true
		case event.MassQuoteRejected:
			return domain.Rejection{Reason: rej.Reason, Text: rej.Text}, true
		}
	}
	return domain.Rejection{}, false
}

// txnBuilder accumulates events while folding them into the snapshot,
// so the two can never drift apart.
type txnBuilder struct {
	books  *book.Books
	events []event.Event
}

func newTxnBuilder(b *book.Books) *txnBuilder {
	return &txnBuilder{books: b}
}

func (tb *txnBuilder) emit(ev event.Event) {
	tb.books = ev.Apply(tb.books)
	tb.events = append(tb.events, ev)
}

func (tb *txnBuilder) nextEventID() domain.EventID {
	return tb.books.LastEventID().Next()
}

func (tb *txnBuilder) build() *Transaction {
	return &Transaction{Books: tb.books, Events: tb.events}
}
