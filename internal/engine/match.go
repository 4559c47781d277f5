package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// cannotTrade implements self-match prevention. An aggressor never
// trades with its own resting interest, nor with resting interest of
// the same firm when either side carries no firm client id (the
// firm-against-client case cannot be ruled out).
func cannotTrade(aggressor, passive domain.Client) bool {
	if aggressor == passive {
		return true
	}
	return aggressor.FirmID == passive.FirmID &&
		(aggressor.FirmClientID == "" || passive.FirmClientID == "")
}

// crossed reports whether the aggressor's price meets the passive
// entry's. A priceless (market) aggressor crosses any priced entry.
func crossed(aggressor, passive book.Entry) bool {
	if !aggressor.Price.IsSet() {
		return passive.Price.IsSet()
	}
	return aggressor.Price.Betters(aggressor.Side, passive.Price)
}

// tradePrice is the resting entry's price; a market aggressor takes
// whatever the passive side quotes. Market entries never rest, so a
// passive entry always has a price.
func tradePrice(aggressor, passive book.Entry) domain.Price {
	if passive.Price.IsSet() {
		return passive.Price
	}
	return aggressor.Price
}

// findNextMatch walks the contra side in priority order for the next
// entry the aggressor may trade with. Self-match-prevented entries are
// skipped and matching continues deeper into the book; the walk stops
// at the first entry whose price no longer crosses, since entries only
// get worse from there.
func findNextMatch(aggressor book.Entry, b *book.Books) (book.Entry, bool) {
	var passive book.Entry
	var found bool
	b.Walk(aggressor.Side.Opposite(), func(e book.Entry) bool {
		if !crossed(aggressor, e) {
			return false
		}
		if cannotTrade(aggressor.Client, e.Client) {
			return true
		}
		passive, found = e, true
		return false
	})
	return passive, found
}

// availableToFill sums the contra quantity the aggressor could
// actually trade, honouring price crossing and self-match prevention.
// Used for the fill-or-kill pre-check; stops once the needed size is
// covered.
func availableToFill(aggressor book.Entry, b *book.Books, needed int64) int64 {
	var total int64
	b.Walk(aggressor.Side.Opposite(), func(e book.Entry) bool {
		if !crossed(aggressor, e) {
			return false
		}
		if cannotTrade(aggressor.Client, e.Client) {
			return true
		}
		total += e.Sizes.Available
		return total < needed
	})
	return total
}

// matchEntry fills the aggressor against the contra side of the book,
// emitting one Trade event per fill through the builder. Each
// iteration strictly reduces either the aggressor's available size or
// the contra side's depth, so the loop terminates in O(depth touched).
// Returns the aggressor's state after matching.
func matchEntry(tb *txnBuilder, aggressor book.Entry, now time.Time) book.Entry {
	for aggressor.Sizes.Available > 0 {
		passive, ok := findNextMatch(aggressor, tb.books)
		if !ok {
			break
		}

		size := aggressor.Sizes.Available
		if passive.Sizes.Available < size {
			size = passive.Sizes.Available
		}
		price := tradePrice(aggressor, passive)

		aggressor = aggressor.Trade(size)
		tb.emit(event.Trade{
			ID:         tb.nextEventID(),
			Book:       tb.books.ID(),
			TradeID:    uuid.New().String(),
			Size:       size,
			Price:      price,
			OccurredAt: now,
			Aggressor:  aggressor,
			Passive:    passive.Trade(size),
		})
	}
	return aggressor
}

// restOrDiscard finishes an aggressor after matching: a remainder
// rests when the time-in-force permits it, otherwise it is discarded.
// Returns the aggressor's final sizes.
func restOrDiscard(tb *txnBuilder, aggressor book.Entry) domain.EntrySizes {
	if aggressor.Sizes.Available > 0 && aggressor.TimeInForce.CanRest() {
		id := tb.nextEventID()
		entry := aggressor
		entry.EventID = id
		tb.emit(event.EntryAdded{
			ID:    id,
			Book:  tb.books.ID(),
			Entry: entry,
		})
		return entry.Sizes
	}
	if aggressor.Sizes.Available > 0 {
		return aggressor.Sizes.Cancel()
	}
	return aggressor.Sizes
}
