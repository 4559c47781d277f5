package engine

import (
	"fmt"
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// PlaceOrderCommand submits a limit or market order against one book.
type PlaceOrderCommand struct {
	RequestID   domain.ClientRequestID
	Client      domain.Client
	Book        domain.BookID
	Type        domain.EntryType
	Side        domain.Side
	Size        int64
	Price       domain.Price
	TimeInForce domain.TimeInForce
	SubmittedAt time.Time
}

// BookID returns the targeted book.
func (c PlaceOrderCommand) BookID() domain.BookID { return c.Book }

// orderRule is one validation rule. Rules run in order and the first
// failure wins.
type orderRule func(c PlaceOrderCommand, rules Rules, b *book.Books) *domain.Rejection

var orderRules = []orderRule{
	orderBookMustMatch,
	orderStatusMustAllow,
	orderSideMustBeKnown,
	orderSizeMustBePositive,
	orderPriceMustFitType,
	orderTIFMustBeSupported,
}

func (c PlaceOrderCommand) validate(rules Rules, b *book.Books) event.Event {
	for _, rule := range orderRules {
		if rej := rule(c, rules, b); rej != nil {
			return event.OrderRejected{
				ID:          b.LastEventID().Next(),
				Book:        c.Book,
				RequestID:   c.RequestID,
				Client:      c.Client,
				Type:        c.Type,
				Side:        c.Side,
				Size:        c.Size,
				Price:       c.Price,
				TimeInForce: c.TimeInForce,
				SubmittedAt: c.SubmittedAt,
				Reason:      rej.Reason,
				Text:        rej.Text,
			}
		}
	}
	return nil
}

func (c PlaceOrderCommand) execute(rules Rules, b *book.Books) *Transaction {
	tb := newTxnBuilder(b)
	aggressor := c.toEntry()

	// Fill-or-kill fills entirely or not at all: when the contra side
	// cannot cover the size, skip matching and cancel the whole order.
	killed := c.TimeInForce == domain.FillOrKill &&
		availableToFill(aggressor, tb.books, c.Size) < c.Size

	sizes := aggressor.Sizes
	if !killed {
		aggressor = matchEntry(tb, aggressor, c.SubmittedAt)
		sizes = restOrDiscard(tb, aggressor)
	} else {
		sizes = sizes.Cancel()
	}

	tb.emit(event.OrderPlaced{
		ID:          tb.nextEventID(),
		Book:        c.Book,
		RequestID:   c.RequestID,
		Client:      c.Client,
		Type:        c.Type,
		Side:        c.Side,
		Price:       c.Price,
		TimeInForce: c.TimeInForce,
		Sizes:       sizes,
		SubmittedAt: c.SubmittedAt,
	})
	return tb.build()
}

func (c PlaceOrderCommand) toEntry() book.Entry {
	return book.Entry{
		Price:       c.Price,
		SubmittedAt: c.SubmittedAt,
		RequestID:   c.RequestID,
		Client:      c.Client,
		Type:        c.Type,
		Side:        c.Side,
		TimeInForce: c.TimeInForce,
		Sizes:       domain.NewEntrySizes(c.Size),
		Status:      domain.EntryStatusNew,
	}
}

func orderBookMustMatch(c PlaceOrderCommand, _ Rules, b *book.Books) *domain.Rejection {
	if c.Book != b.ID() {
		return &domain.Rejection{
			Reason: domain.RejectUnknownBook,
			Text:   fmt.Sprintf("unknown book id: %s", c.Book),
		}
	}
	return nil
}

func orderStatusMustAllow(_ PlaceOrderCommand, _ Rules, b *book.Books) *domain.Rejection {
	if !b.Status().AllowsPlacement() {
		return &domain.Rejection{
			Reason: domain.RejectVenueClosed,
			Text:   fmt.Sprintf("placing orders is not allowed: %s", b.Status()),
		}
	}
	return nil
}

func orderSideMustBeKnown(c PlaceOrderCommand, _ Rules, _ *book.Books) *domain.Rejection {
	if !c.Side.Valid() {
		return &domain.Rejection{
			Reason: domain.RejectOther,
			Text:   fmt.Sprintf("unknown side: %q", c.Side),
		}
	}
	return nil
}

func orderSizeMustBePositive(c PlaceOrderCommand, _ Rules, _ *book.Books) *domain.Rejection {
	if c.Size <= 0 {
		return &domain.Rejection{
			Reason: domain.RejectInvalidQuantity,
			Text:   fmt.Sprintf("order size must be positive: %d", c.Size),
		}
	}
	return nil
}

func orderPriceMustFitType(c PlaceOrderCommand, rules Rules, _ *book.Books) *domain.Rejection {
	if !c.Type.PriceRequired() {
		if c.Price.IsSet() {
			return &domain.Rejection{
				Reason: domain.RejectInvalidPrice,
				Text:   fmt.Sprintf("market orders carry no price: %d", c.Price),
			}
		}
		return nil
	}
	return rules.checkPrice(c.Price)
}

func orderTIFMustBeSupported(c PlaceOrderCommand, _ Rules, _ *book.Books) *domain.Rejection {
	if !domain.ValidCombo(c.Type, c.TimeInForce) {
		return &domain.Rejection{
			Reason: domain.RejectUnsupportedTIF,
			Text:   fmt.Sprintf("%s %s is not supported", c.Type, c.TimeInForce),
		}
	}
	return nil
}
