package event

import (
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
)

// OrderPlaced confirms an accepted order. Sizes carry the final split
// of the original quantity after matching: traded, resting (available)
// and, when the time-in-force forbade resting, cancelled remainder.
type OrderPlaced struct {
	ID          domain.EventID
	Book        domain.BookID
	RequestID   domain.ClientRequestID
	Client      domain.Client
	Type        domain.EntryType
	Side        domain.Side
	Price       domain.Price
	TimeInForce domain.TimeInForce
	Sizes       domain.EntrySizes
	SubmittedAt time.Time
}

func (e OrderPlaced) BookID() domain.BookID   { return e.Book }
func (e OrderPlaced) EventID() domain.EventID { return e.ID }
func (e OrderPlaced) Kind() Kind              { return KindOrderPlaced }

// Apply advances the event sequence only; the book changes of an order
// are carried by the Trade and EntryAdded events preceding it.
func (e OrderPlaced) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID)
}

// OrderRejected records a refused order. No book change occurs.
type OrderRejected struct {
	ID          domain.EventID
	Book        domain.BookID
	RequestID   domain.ClientRequestID
	Client      domain.Client
	Type        domain.EntryType
	Side        domain.Side
	Size        int64
	Price       domain.Price
	TimeInForce domain.TimeInForce
	SubmittedAt time.Time
	Reason      domain.RejectReason
	Text        string
}

func (e OrderRejected) BookID() domain.BookID   { return e.Book }
func (e OrderRejected) EventID() domain.EventID { return e.ID }
func (e OrderRejected) Kind() Kind              { return KindOrderRejected }

func (e OrderRejected) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID)
}

// EntryAdded records a remainder coming to rest on the book.
type EntryAdded struct {
	ID    domain.EventID
	Book  domain.BookID
	Entry book.Entry
}

func (e EntryAdded) BookID() domain.BookID   { return e.Book }
func (e EntryAdded) EventID() domain.EventID { return e.ID }
func (e EntryAdded) Kind() Kind              { return KindEntryAdded }

func (e EntryAdded) Apply(b *book.Books) *book.Books {
	return b.WithEventID(e.ID).Insert(e.Entry)
}
