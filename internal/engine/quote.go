package engine

import (
	"fmt"
	"time"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// PlaceMassQuoteCommand replaces a market maker's entire two-sided
// interest under one quote id: every resting entry tagged with the
// same (client, quote id) pair is cancelled before the new levels are
// placed. The swap is atomic at command granularity — a rejected quote
// leaves the prior quotes resting untouched.
type PlaceMassQuoteCommand struct {
	QuoteID     string
	Client      domain.Client
	Book        domain.BookID
	TimeInForce domain.TimeInForce
	Entries     []domain.QuoteEntry
	SubmittedAt time.Time
}

// BookID returns the targeted book.
func (c PlaceMassQuoteCommand) BookID() domain.BookID { return c.Book }

type quoteRule func(c PlaceMassQuoteCommand, rules Rules, b *book.Books) *domain.Rejection

var quoteRules = []quoteRule{
	quoteBookMustMatch,
	quoteStatusMustAllow,
	quoteEntriesMustExist,
	quoteTIFMustRest,
	quoteSizesMustBePositive,
	quotePricesMustBeValid,
	quoteMustNotCrossItself,
	quoteMustHonourPolicy,
}

func (c PlaceMassQuoteCommand) validate(rules Rules, b *book.Books) event.Event {
	for _, rule := range quoteRules {
		if rej := rule(c, rules, b); rej != nil {
			return event.MassQuoteRejected{
				ID:          b.LastEventID().Next(),
				Book:        c.Book,
				QuoteID:     c.QuoteID,
				Client:      c.Client,
				TimeInForce: c.TimeInForce,
				Entries:     c.Entries,
				SubmittedAt: c.SubmittedAt,
				Reason:      rej.Reason,
				Text:        rej.Text,
			}
		}
	}
	return nil
}

func (c PlaceMassQuoteCommand) execute(rules Rules, b *book.Books) *Transaction {
	tb := newTxnBuilder(b)

	// Cancel-and-replace: prior quotes under this (client, quote id)
	// come off both sides before any new level is placed.
	if existing := c.priorQuotes(tb.books); len(existing) > 0 {
		cancelled := make([]book.Entry, len(existing))
		for i, e := range existing {
			cancelled[i] = e.Cancelled()
		}
		tb.emit(event.MassQuoteCancelled{
			ID:         tb.nextEventID(),
			Book:       c.Book,
			Client:     c.Client,
			Entries:    cancelled,
			OccurredAt: c.SubmittedAt,
		})
	}

	// Levels apply in the order supplied; later legs see the book
	// state the earlier ones left behind.
	for _, level := range c.Entries {
		for _, leg := range c.legs(level) {
			aggressor := matchEntry(tb, leg, c.SubmittedAt)
			restOrDiscard(tb, aggressor)
		}
	}

	tb.emit(event.MassQuotePlaced{
		ID:          tb.nextEventID(),
		Book:        c.Book,
		QuoteID:     c.QuoteID,
		Client:      c.Client,
		TimeInForce: c.TimeInForce,
		Entries:     c.Entries,
		SubmittedAt: c.SubmittedAt,
	})
	return tb.build()
}

// priorQuotes finds the client's resting entries tagged with this
// quote id.
func (c PlaceMassQuoteCommand) priorQuotes(b *book.Books) []book.Entry {
	var out []book.Entry
	for _, e := range b.Quotes(c.Client) {
		if e.RequestID.ParentID == c.QuoteID {
			out = append(out, e)
		}
	}
	return out
}

// legs expands one quote level into its bid and offer book entries, in
// that order.
func (c PlaceMassQuoteCommand) legs(level domain.QuoteEntry) []book.Entry {
	var out []book.Entry
	if level.Bid != nil {
		out = append(out, c.leg(level, domain.SideBuy, *level.Bid))
	}
	if level.Offer != nil {
		out = append(out, c.leg(level, domain.SideSell, *level.Offer))
	}
	return out
}

func (c PlaceMassQuoteCommand) leg(level domain.QuoteEntry, side domain.Side, sp domain.SizeAtPrice) book.Entry {
	return book.Entry{
		Price:       sp.Price,
		SubmittedAt: c.SubmittedAt,
		RequestID:   level.RequestID(c.QuoteID),
		Client:      c.Client,
		Type:        domain.EntryTypeLimit,
		Side:        side,
		TimeInForce: c.TimeInForce,
		Sizes:       domain.NewEntrySizes(sp.Size),
		Status:      domain.EntryStatusNew,
		IsQuote:     true,
	}
}

func quoteBookMustMatch(c PlaceMassQuoteCommand, _ Rules, b *book.Books) *domain.Rejection {
	if c.Book != b.ID() {
		return &domain.Rejection{
			Reason: domain.RejectUnknownBook,
			Text:   fmt.Sprintf("unknown book id: %s", c.Book),
		}
	}
	return nil
}

func quoteStatusMustAllow(_ PlaceMassQuoteCommand, _ Rules, b *book.Books) *domain.Rejection {
	if !b.Status().AllowsPlacement() {
		return &domain.Rejection{
			Reason: domain.RejectVenueClosed,
			Text:   fmt.Sprintf("placing mass quotes is not allowed: %s", b.Status()),
		}
	}
	return nil
}

func quoteEntriesMustExist(c PlaceMassQuoteCommand, _ Rules, _ *book.Books) *domain.Rejection {
	if len(c.Entries) == 0 {
		return &domain.Rejection{
			Reason: domain.RejectEmptyQuote,
			Text:   "mass quote carries no entries",
		}
	}
	for i, level := range c.Entries {
		if level.Bid == nil && level.Offer == nil {
			return &domain.Rejection{
				Reason: domain.RejectEmptyQuote,
				Text:   fmt.Sprintf("quote level %d carries no interest", i),
			}
		}
	}
	return nil
}

func quoteTIFMustRest(c PlaceMassQuoteCommand, _ Rules, _ *book.Books) *domain.Rejection {
	if !c.TimeInForce.CanRest() {
		return &domain.Rejection{
			Reason: domain.RejectUnsupportedTIF,
			Text:   fmt.Sprintf("mass quote %s is not supported", c.TimeInForce),
		}
	}
	return nil
}

func quoteSizesMustBePositive(c PlaceMassQuoteCommand, _ Rules, _ *book.Books) *domain.Rejection {
	for _, level := range c.Entries {
		for _, sp := range []*domain.SizeAtPrice{level.Bid, level.Offer} {
			if sp != nil && sp.Size <= 0 {
				return &domain.Rejection{
					Reason: domain.RejectInvalidQuantity,
					Text:   fmt.Sprintf("quote sizes must be positive: %d", sp.Size),
				}
			}
		}
	}
	return nil
}

func quotePricesMustBeValid(c PlaceMassQuoteCommand, rules Rules, _ *book.Books) *domain.Rejection {
	for _, level := range c.Entries {
		for _, sp := range []*domain.SizeAtPrice{level.Bid, level.Offer} {
			if sp == nil {
				continue
			}
			if rej := rules.checkPrice(sp.Price); rej != nil {
				return rej
			}
		}
	}
	return nil
}

// quoteMustNotCrossItself rejects a set whose highest bid meets its
// lowest offer, across all levels. An internally crossed quote is
// never placed and never rests.
func quoteMustNotCrossItself(c PlaceMassQuoteCommand, _ Rules, _ *book.Books) *domain.Rejection {
	var highestBid, lowestOffer domain.Price
	for _, level := range c.Entries {
		if level.Bid != nil && level.Bid.Price > highestBid {
			highestBid = level.Bid.Price
		}
		if level.Offer != nil && (!lowestOffer.IsSet() || level.Offer.Price < lowestOffer) {
			lowestOffer = level.Offer.Price
		}
	}
	if highestBid.IsSet() && lowestOffer.IsSet() && highestBid >= lowestOffer {
		return &domain.Rejection{
			Reason: domain.RejectCrossedQuote,
			Text: fmt.Sprintf("quote prices must not cross within a mass quote: highestBid=%d lowestOffer=%d",
				highestBid, lowestOffer),
		}
	}
	return nil
}

// quoteMustHonourPolicy applies the protect policy: when quotes may
// only rest, a leg that would trade on arrival rejects the whole
// quote. The client's own resting interest is exempt — it is either
// being replaced or protected by self-match prevention.
func quoteMustHonourPolicy(c PlaceMassQuoteCommand, rules Rules, b *book.Books) *domain.Rejection {
	if rules.QuotePolicy != QuotePolicyProtect {
		return nil
	}
	for _, level := range c.Entries {
		for _, leg := range c.legs(level) {
			if _, found := findNextMatch(leg, b); found {
				return &domain.Rejection{
					Reason: domain.RejectCrossedQuote,
					Text: fmt.Sprintf("quote leg %s %d@%d would cross resting interest",
						leg.Side, leg.Sizes.Available, leg.Price),
				}
			}
		}
	}
	return nil
}
