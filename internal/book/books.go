// Package book holds the per-instrument order book aggregate. A Books
// value is an immutable snapshot: every operation returns a new value
// derived from the old one, and published snapshots stay valid and
// unchanged forever. Structural ordering violations are programming
// defects and panic rather than propagate.
package book

import (
	"fmt"

	"github.com/openvenue/matchbook/internal/domain"
)

// Books is the aggregate for one BookID: a bid side and an ask side in
// price-time priority, the trading status, and the id of the last
// event applied.
type Books struct {
	id          domain.BookID
	bids        *sideBook
	asks        *sideBook
	status      domain.TradingStatus
	lastEventID domain.EventID
}

// New creates an empty, open book.
func New(id domain.BookID) *Books {
	return &Books{
		id:     id,
		bids:   newSideBook(domain.SideBuy),
		asks:   newSideBook(domain.SideSell),
		status: domain.TradingStatusOpen,
	}
}

// ID returns the book identifier.
func (b *Books) ID() domain.BookID { return b.id }

// Status returns the trading status.
func (b *Books) Status() domain.TradingStatus { return b.status }

// LastEventID returns the id of the last event applied to this
// snapshot.
func (b *Books) LastEventID() domain.EventID { return b.lastEventID }

// WithStatus returns the book under a new trading status.
func (b *Books) WithStatus(status domain.TradingStatus) *Books {
	next := *b
	next.status = status
	return &next
}

// WithEventID advances the book to the given event id. Event ids are
// gapless per book; anything else is a sequencing defect.
func (b *Books) WithEventID(id domain.EventID) *Books {
	if !id.IsNextOf(b.lastEventID) {
		panic(fmt.Sprintf("event id out of sequence: last=%d incoming=%d", b.lastEventID, id))
	}
	next := *b
	next.lastEventID = id
	return &next
}

func (b *Books) side(s domain.Side) *sideBook {
	if s == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *Books) withSide(s *sideBook) *Books {
	next := *b
	if s.side == domain.SideBuy {
		next.bids = s
	} else {
		next.asks = s
	}
	return &next
}

// Insert adds a resting entry at the tail of its price level's queue.
func (b *Books) Insert(e Entry) *Books {
	if !e.Price.IsSet() || e.Sizes.Available <= 0 || !e.Side.Valid() {
		panic(fmt.Sprintf("entry not restable: price=%d available=%d side=%q",
			e.Price, e.Sizes.Available, e.Side))
	}
	return b.withSide(b.side(e.Side).insert(e))
}

// UpdateEntry replaces the resting entry at e's key with e, removing
// it when its available size has reached zero.
func (b *Books) UpdateEntry(e Entry) *Books {
	return b.withSide(b.side(e.Side).update(e))
}

// RemoveEntries removes the given entries from their sides.
func (b *Books) RemoveEntries(entries []Entry) *Books {
	var bids, asks []Entry
	for _, e := range entries {
		if e.Side == domain.SideBuy {
			bids = append(bids, e)
		} else {
			asks = append(asks, e)
		}
	}
	next := b
	if len(bids) > 0 {
		next = next.withSide(next.bids.removeAll(bids))
	}
	if len(asks) > 0 {
		next = next.withSide(next.asks.removeAll(asks))
	}
	return next
}

// BestBid returns the highest-priority bid.
func (b *Books) BestBid() (Entry, bool) { return b.bids.best() }

// BestAsk returns the highest-priority ask.
func (b *Books) BestAsk() (Entry, bool) { return b.asks.best() }

// Best returns the highest-priority entry on the given side.
func (b *Books) Best(s domain.Side) (Entry, bool) { return b.side(s).best() }

// Walk iterates a side in priority order. The callback returns false
// to stop.
func (b *Books) Walk(s domain.Side, fn func(Entry) bool) {
	b.side(s).walk(fn)
}

// Len returns the number of individual entries on a side.
func (b *Books) Len(s domain.Side) int { return b.side(s).len() }

// Crossed reports whether the best bid price meets or exceeds the best
// ask price. A crossed book must never survive a completed command.
func (b *Books) Crossed() bool {
	bid, okBid := b.bids.best()
	ask, okAsk := b.asks.best()
	return okBid && okAsk && int64(bid.Price) >= int64(ask.Price)
}
