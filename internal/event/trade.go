package event

import (
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
)

// Trade records one fill between an incoming (aggressor) entry and a
// resting (passive) entry. The price is always the passive entry's
// price: the resting side sets the trade price.
type Trade struct {
	ID         domain.EventID
	Book       domain.BookID
	TradeID    string
	Size       int64
	Price      domain.Price
	OccurredAt time.Time
	Aggressor  book.Entry
	Passive    book.Entry
}

func (e Trade) BookID() domain.BookID   { return e.Book }
func (e Trade) EventID() domain.EventID { return e.ID }
func (e Trade) Kind() Kind              { return KindTrade }

// Apply reduces the passive entry in place (same priority position) or
// removes it when fully consumed. The aggressor is not yet on the
// book; its remainder arrives via a later EntryAdded event, if at all.
func (e Trade) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID).UpdateEntry(e.Passive)
}
