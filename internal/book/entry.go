package book

import (
	"time"

	"github.com/google/btree"

	"github.com/openvenue/matchbook/internal/domain"
)

// Entry is a resting unit of interest in the book. Entries are values:
// a partial fill produces a new Entry with reduced sizes, never an
// in-place mutation, so older snapshots keep the original.
type Entry struct {
	Price       domain.Price
	SubmittedAt time.Time
	EventID     domain.EventID
	RequestID   domain.ClientRequestID
	Client      domain.Client
	Type        domain.EntryType
	Side        domain.Side
	TimeInForce domain.TimeInForce
	Sizes       domain.EntrySizes
	Status      domain.EntryStatus
	IsQuote     bool
}

// Trade returns the entry after filling size.
func (e Entry) Trade(size int64) Entry {
	sizes := e.Sizes.Trade(size)
	e.Sizes = sizes
	e.Status = sizes.StatusAfterTrade()
	return e
}

// Cancelled returns the entry with all remaining size cancelled.
func (e Entry) Cancelled() Entry {
	e.Sizes = e.Sizes.Cancel()
	e.Status = domain.EntryStatusCancelled
	return e
}

// SameKey reports whether two entries occupy the same book position.
// (price, submission time, event id) is unique per entry.
func (e Entry) SameKey(other Entry) bool {
	return e.Price == other.Price &&
		e.SubmittedAt.Equal(other.SubmittedAt) &&
		e.EventID == other.EventID
}

// lessFor builds the side's priority ordering: best price first
// (highest for bids, lowest for asks), then earliest submission, then
// smallest event id. Min() of the tree is always the next entry to
// match.
func lessFor(side domain.Side) btree.LessFunc[Entry] {
	m := side.Multiplier()
	return func(a, b Entry) bool {
		if a.Price != b.Price {
			return m*int64(a.Price) < m*int64(b.Price)
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.EventID < b.EventID
	}
}
