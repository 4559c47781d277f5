package event

import (
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
)

// MassQuoteCancelled records the wholesale removal of a client's prior
// quotes, emitted before the replacement set is placed. Entries carry
// the cancelled state of each removed entry.
type MassQuoteCancelled struct {
	ID         domain.EventID
	Book       domain.BookID
	Client     domain.Client
	Entries    []book.Entry
	OccurredAt time.Time
}

func (e MassQuoteCancelled) BookID() domain.BookID   { return e.Book }
func (e MassQuoteCancelled) EventID() domain.EventID { return e.ID }
func (e MassQuoteCancelled) Kind() Kind              { return KindMassQuoteCancelled }

func (e MassQuoteCancelled) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID).RemoveEntries(e.Entries)
}

// MassQuotePlaced confirms an accepted mass quote. It follows the
// trade and entry-added events its legs produced.
type MassQuotePlaced struct {
	ID          domain.EventID
	Book        domain.BookID
	QuoteID     string
	Client      domain.Client
	TimeInForce domain.TimeInForce
	Entries     []domain.QuoteEntry
	SubmittedAt time.Time
}

func (e MassQuotePlaced) BookID() domain.BookID   { return e.Book }
func (e MassQuotePlaced) EventID() domain.EventID { return e.ID }
func (e MassQuotePlaced) Kind() Kind              { return KindMassQuotePlaced }

func (e MassQuotePlaced) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID)
}

// MassQuoteRejected records a refused mass quote. The prior quotes of
// the client remain untouched: rejection never cancels.
type MassQuoteRejected struct {
	ID          domain.EventID
	Book        domain.BookID
	QuoteID     string
	Client      domain.Client
	TimeInForce domain.TimeInForce
	Entries     []domain.QuoteEntry
	SubmittedAt time.Time
	Reason      domain.RejectReason
	Text        string
}

func (e MassQuoteRejected) BookID() domain.BookID   { return e.Book }
func (e MassQuoteRejected) EventID() domain.EventID { return e.ID }
func (e MassQuoteRejected) Kind() Kind              { return KindMassQuoteRejected }

func (e MassQuoteRejected) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID)
}
