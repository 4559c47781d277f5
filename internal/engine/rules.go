package engine

import (
	"fmt"

	"github.com/openvenue/matchbook/internal/domain"
)

// QuotePolicy decides what happens when a mass-quote leg would cross
// resting contra interest at placement time.
type QuotePolicy string

const (
	// QuotePolicyCross lets quote legs match like limit orders.
	QuotePolicyCross QuotePolicy = "cross"
	// QuotePolicyProtect rejects a mass quote whose legs would trade
	// on arrival, so quotes only ever rest.
	QuotePolicyProtect QuotePolicy = "protect"
)

// Valid reports whether p is a known policy.
func (p QuotePolicy) Valid() bool {
	return p == QuotePolicyCross || p == QuotePolicyProtect
}

// Rules are the venue-configured trading rules the validators apply.
// Zero band bounds disable the price band.
type Rules struct {
	TickSize      int64
	PriceBandLow  domain.Price
	PriceBandHigh domain.Price
	QuotePolicy   QuotePolicy
}

// DefaultRules accepts every positive price and lets quotes cross.
func DefaultRules() Rules {
	return Rules{TickSize: 1, QuotePolicy: QuotePolicyCross}
}

// checkPrice validates a required price against tick and band rules.
// Returns nil when the price is acceptable.
func (r Rules) checkPrice(p domain.Price) *domain.Rejection {
	if !p.IsSet() || p < 0 {
		return &domain.Rejection{
			Reason: domain.RejectInvalidPrice,
			Text:   fmt.Sprintf("price must be positive: %d", p),
		}
	}
	if !p.OnTick(r.TickSize) {
		return &domain.Rejection{
			Reason: domain.RejectInvalidPrice,
			Text:   fmt.Sprintf("price %d violates tick size %d", p, r.TickSize),
		}
	}
	if r.PriceBandLow.IsSet() && p < r.PriceBandLow {
		return &domain.Rejection{
			Reason: domain.RejectInvalidPrice,
			Text:   fmt.Sprintf("price %d below band floor %d", p, r.PriceBandLow),
		}
	}
	if r.PriceBandHigh.IsSet() && p > r.PriceBandHigh {
		return &domain.Rejection{
			Reason: domain.RejectInvalidPrice,
			Text:   fmt.Sprintf("price %d above band ceiling %d", p, r.PriceBandHigh),
		}
	}
	return nil
}
