package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

const testBookID = domain.BookID("XBT-EUR")

var baseTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

var (
	buyer  = domain.Client{FirmID: "firm-b", FirmClientID: "trader-1"}
	seller = domain.Client{FirmID: "firm-s", FirmClientID: "trader-2"}
	maker  = domain.Client{FirmID: "firm-m", FirmClientID: "mm-1"}
)

// at spaces submissions one millisecond apart so time priority is
// deterministic.
func at(seq int) time.Time {
	return baseTime.Add(time.Duration(seq) * time.Millisecond)
}

func limit(c domain.Client, side domain.Side, price domain.Price, size int64, tif domain.TimeInForce, seq int) PlaceOrderCommand {
	return PlaceOrderCommand{
		RequestID:   domain.ClientRequestID{Current: fmt.Sprintf("req-%d", seq)},
		Client:      c,
		Book:        testBookID,
		Type:        domain.EntryTypeLimit,
		Side:        side,
		Size:        size,
		Price:       price,
		TimeInForce: tif,
		SubmittedAt: at(seq),
	}
}

func market(c domain.Client, side domain.Side, size int64, tif domain.TimeInForce, seq int) PlaceOrderCommand {
	cmd := limit(c, side, domain.None, size, tif, seq)
	cmd.Type = domain.EntryTypeMarket
	return cmd
}

// level builds one quote level; a zero size leaves that leg out.
func level(i int, bidPrice domain.Price, bidSize int64, offerPrice domain.Price, offerSize int64) domain.QuoteEntry {
	q := domain.QuoteEntry{
		QuoteEntryID: fmt.Sprintf("qe-%d", i),
		QuoteSetID:   "qs-1",
	}
	if bidSize > 0 {
		q.Bid = &domain.SizeAtPrice{Price: bidPrice, Size: bidSize}
	}
	if offerSize > 0 {
		q.Offer = &domain.SizeAtPrice{Price: offerPrice, Size: offerSize}
	}
	return q
}

func massQuote(c domain.Client, quoteID string, seq int, levels ...domain.QuoteEntry) PlaceMassQuoteCommand {
	return PlaceMassQuoteCommand{
		QuoteID:     quoteID,
		Client:      c,
		Book:        testBookID,
		TimeInForce: domain.GoodTillCancel,
		Entries:     levels,
		SubmittedAt: at(seq),
	}
}

func mustAccept(t testing.TB, eng *Engine, b *book.Books, cmd Command) *Transaction {
	t.Helper()
	txn := eng.Process(cmd, b)
	if rej, ok := txn.Rejected(); ok {
		t.Fatalf("command rejected: %s: %s", rej.Reason, rej.Text)
	}
	return txn
}

func mustReject(t testing.TB, eng *Engine, b *book.Books, cmd Command) (domain.Rejection, *Transaction) {
	t.Helper()
	txn := eng.Process(cmd, b)
	rej, ok := txn.Rejected()
	if !ok {
		t.Fatalf("command accepted, expected rejection")
	}
	return rej, txn
}

func kinds(txn *Transaction) []event.Kind {
	out := make([]event.Kind, len(txn.Events))
	for i, ev := range txn.Events {
		out[i] = ev.Kind()
	}
	return out
}

func sameKinds(got, want []event.Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
