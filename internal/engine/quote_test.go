package engine

import (
	"testing"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

func TestMassQuote_FreshQuoteRestsAllLegs(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 1,
		level(1, 99, 10, 101, 10),
		level(2, 98, 5, 102, 5),
	))

	want := []event.Kind{
		event.KindEntryAdded, event.KindEntryAdded,
		event.KindEntryAdded, event.KindEntryAdded,
		event.KindMassQuotePlaced,
	}
	if !sameKinds(kinds(txn), want) {
		t.Fatalf("kinds = %v, want %v", kinds(txn), want)
	}

	if txn.Books.Len(domain.SideBuy) != 2 || txn.Books.Len(domain.SideSell) != 2 {
		t.Errorf("lens = %d/%d, want 2/2",
			txn.Books.Len(domain.SideBuy), txn.Books.Len(domain.SideSell))
	}

	bestBid, _ := txn.Books.BestBid()
	bestAsk, _ := txn.Books.BestAsk()
	if bestBid.Price != 99 || bestAsk.Price != 101 {
		t.Errorf("top of book = %d/%d, want 99/101", bestBid.Price, bestAsk.Price)
	}
	if !bestBid.IsQuote || bestBid.RequestID.ParentID != "q-1" {
		t.Errorf("resting leg not tagged as quote: %+v", bestBid)
	}
}

func TestMassQuote_ReplacesPriorQuoteAtomically(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, massQuote(maker, "q-1", 1,
		level(1, 99, 10, 101, 10),
	)).Books

	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 2,
		level(1, 98, 20, 102, 20),
	))

	want := []event.Kind{
		event.KindMassQuoteCancelled,
		event.KindEntryAdded, event.KindEntryAdded,
		event.KindMassQuotePlaced,
	}
	if !sameKinds(kinds(txn), want) {
		t.Fatalf("kinds = %v, want %v", kinds(txn), want)
	}

	cancelled := txn.Events[0].(event.MassQuoteCancelled)
	if len(cancelled.Entries) != 2 {
		t.Errorf("cancelled %d entries, want 2", len(cancelled.Entries))
	}

	bestBid, _ := txn.Books.BestBid()
	bestAsk, _ := txn.Books.BestAsk()
	if bestBid.Price != 98 || bestAsk.Price != 102 {
		t.Errorf("top of book = %d/%d, want the replacement 98/102", bestBid.Price, bestAsk.Price)
	}
	if txn.Books.Len(domain.SideBuy) != 1 || txn.Books.Len(domain.SideSell) != 1 {
		t.Errorf("lens = %d/%d, want 1/1",
			txn.Books.Len(domain.SideBuy), txn.Books.Len(domain.SideSell))
	}
}

func TestMassQuote_ReplacementIsScopedToQuoteID(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, massQuote(maker, "q-1", 1, level(1, 99, 10, 101, 10))).Books
	b = mustAccept(t, eng, b, massQuote(maker, "q-2", 2, level(2, 97, 10, 103, 10))).Books

	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 3, level(3, 98, 5, 102, 5)))

	// q-2 keeps resting untouched at 97/103.
	if got := txn.Books.VolumeAt(domain.SideBuy, 97); got != 10 {
		t.Errorf("q-2 bid volume = %d, want 10", got)
	}
	if got := txn.Books.VolumeAt(domain.SideSell, 103); got != 10 {
		t.Errorf("q-2 offer volume = %d, want 10", got)
	}
	// q-1's old levels are gone, replaced by 98/102.
	if got := txn.Books.VolumeAt(domain.SideBuy, 99); got != 0 {
		t.Errorf("old q-1 bid volume = %d, want 0", got)
	}
	if got := txn.Books.VolumeAt(domain.SideBuy, 98); got != 5 {
		t.Errorf("new q-1 bid volume = %d, want 5", got)
	}
}

func TestMassQuote_RejectionLeavesPriorQuotesResting(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, massQuote(maker, "q-1", 1, level(1, 99, 10, 101, 10))).Books

	// A replacement crossed within itself is rejected before any
	// cancellation happens.
	rej, txn := mustReject(t, eng, b, massQuote(maker, "q-1", 2, level(2, 103, 5, 102, 5)))
	if rej.Reason != domain.RejectCrossedQuote {
		t.Fatalf("reason = %q, want crossed_quote", rej.Reason)
	}

	if len(txn.Events) != 1 {
		t.Errorf("len(events) = %d, want only the rejection", len(txn.Events))
	}
	if got := txn.Books.VolumeAt(domain.SideBuy, 99); got != 10 {
		t.Errorf("prior bid volume = %d, want untouched 10", got)
	}
	if got := txn.Books.VolumeAt(domain.SideSell, 101); got != 10 {
		t.Errorf("prior offer volume = %d, want untouched 10", got)
	}
}

func TestMassQuote_CrossesAcrossLevels(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	// Level 1 offers at 101, level 2 bids at 101: crossed across the
	// set even though each level is sane on its own.
	rej, _ := mustReject(t, eng, b, massQuote(maker, "q-1", 1,
		level(1, 99, 10, 101, 10),
		level(2, 101, 5, 103, 5),
	))
	if rej.Reason != domain.RejectCrossedQuote {
		t.Errorf("reason = %q, want crossed_quote", rej.Reason)
	}
}

func TestMassQuote_ValidationRejects(t *testing.T) {
	eng := New(Rules{TickSize: 5, QuotePolicy: QuotePolicyCross})
	open := book.New(testBookID)
	halted := open.WithStatus(domain.TradingStatusHalted)

	tests := []struct {
		name   string
		b      *book.Books
		mutate func(*PlaceMassQuoteCommand)
		want   domain.RejectReason
	}{
		{
			name:   "wrong book",
			b:      open,
			mutate: func(c *PlaceMassQuoteCommand) { c.Book = "ETH-EUR" },
			want:   domain.RejectUnknownBook,
		},
		{
			name:   "halted book",
			b:      halted,
			mutate: func(c *PlaceMassQuoteCommand) {},
			want:   domain.RejectVenueClosed,
		},
		{
			name:   "no entries",
			b:      open,
			mutate: func(c *PlaceMassQuoteCommand) { c.Entries = nil },
			want:   domain.RejectEmptyQuote,
		},
		{
			name: "level without interest",
			b:    open,
			mutate: func(c *PlaceMassQuoteCommand) {
				c.Entries = []domain.QuoteEntry{{QuoteEntryID: "qe-x", QuoteSetID: "qs-1"}}
			},
			want: domain.RejectEmptyQuote,
		},
		{
			name:   "immediate or cancel",
			b:      open,
			mutate: func(c *PlaceMassQuoteCommand) { c.TimeInForce = domain.ImmediateOrCancel },
			want:   domain.RejectUnsupportedTIF,
		},
		{
			name: "non-positive size",
			b:    open,
			mutate: func(c *PlaceMassQuoteCommand) {
				c.Entries[0].Bid.Size = 0
			},
			want: domain.RejectInvalidQuantity,
		},
		{
			name: "off-tick price",
			b:    open,
			mutate: func(c *PlaceMassQuoteCommand) {
				c.Entries[0].Offer.Price = 103
			},
			want: domain.RejectInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := massQuote(maker, "q-1", 1, level(1, 95, 10, 105, 10))
			tt.mutate(&cmd)

			rej, txn := mustReject(t, eng, tt.b, cmd)
			if rej.Reason != tt.want {
				t.Errorf("reason = %q, want %q", rej.Reason, tt.want)
			}
			if len(txn.Events) != 1 {
				t.Errorf("len(events) = %d, want only the rejection", len(txn.Events))
			}
		})
	}
}

func TestMassQuote_LegTradesAgainstRestingInterest(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, limit(seller, domain.SideSell, 100, 5, domain.GoodTillCancel, 1)).Books

	// The bid leg crosses the resting ask; under the default policy it
	// fills first and its remainder rests.
	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 2, level(1, 100, 8, 105, 8)))

	want := []event.Kind{
		event.KindTrade,
		event.KindEntryAdded, // bid remainder
		event.KindEntryAdded, // offer leg
		event.KindMassQuotePlaced,
	}
	if !sameKinds(kinds(txn), want) {
		t.Fatalf("kinds = %v, want %v", kinds(txn), want)
	}

	trades := txn.Trades()
	if trades[0].Price != 100 || trades[0].Size != 5 {
		t.Errorf("fill = %d@%d, want 5@100", trades[0].Size, trades[0].Price)
	}
	if got := txn.Books.VolumeAt(domain.SideBuy, 100); got != 3 {
		t.Errorf("resting bid remainder = %d, want 3", got)
	}
	if got := txn.Books.VolumeAt(domain.SideSell, 105); got != 8 {
		t.Errorf("resting offer = %d, want 8", got)
	}
}

func TestMassQuote_ProtectPolicyRejectsCrossingLeg(t *testing.T) {
	rules := DefaultRules()
	rules.QuotePolicy = QuotePolicyProtect
	eng := New(rules)
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, limit(seller, domain.SideSell, 100, 5, domain.GoodTillCancel, 1)).Books

	rej, txn := mustReject(t, eng, b, massQuote(maker, "q-1", 2, level(1, 100, 8, 105, 8)))
	if rej.Reason != domain.RejectCrossedQuote {
		t.Fatalf("reason = %q, want crossed_quote", rej.Reason)
	}
	if got := txn.Books.VolumeAt(domain.SideSell, 100); got != 5 {
		t.Errorf("resting ask = %d, want untouched 5", got)
	}
}

func TestMassQuote_ProtectPolicyAcceptsRestingQuote(t *testing.T) {
	rules := DefaultRules()
	rules.QuotePolicy = QuotePolicyProtect
	eng := New(rules)
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, limit(seller, domain.SideSell, 105, 5, domain.GoodTillCancel, 1)).Books

	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 2, level(1, 100, 8, 104, 8)))
	if len(txn.Trades()) != 0 {
		t.Fatal("a non-crossing quote must not trade")
	}
	if txn.Books.Len(domain.SideBuy) != 1 || txn.Books.Len(domain.SideSell) != 2 {
		t.Errorf("lens = %d/%d, want 1/2",
			txn.Books.Len(domain.SideBuy), txn.Books.Len(domain.SideSell))
	}
}

func TestMassQuote_ReplacementDoesNotTradeAgainstOwnPriorQuote(t *testing.T) {
	eng := New(DefaultRules())
	b := book.New(testBookID)

	b = mustAccept(t, eng, b, massQuote(maker, "q-1", 1, level(1, 99, 10, 101, 10))).Books

	// The new bid at 101 would cross the maker's own old offer at 101,
	// but the old quote is cancelled before the new legs match.
	txn := mustAccept(t, eng, b, massQuote(maker, "q-1", 2, level(2, 101, 10, 103, 10)))

	if len(txn.Trades()) != 0 {
		t.Fatal("replacement must not trade against the quote it replaces")
	}
	bestBid, _ := txn.Books.BestBid()
	bestAsk, _ := txn.Books.BestAsk()
	if bestBid.Price != 101 || bestAsk.Price != 103 {
		t.Errorf("top of book = %d/%d, want 101/103", bestBid.Price, bestAsk.Price)
	}
}
