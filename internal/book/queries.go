package book

import "github.com/openvenue/matchbook/internal/domain"

// PriceLevel is one aggregated level of depth.
type PriceLevel struct {
	Price   domain.Price
	Size    int64
	Entries int
}

// Depth aggregates up to n price levels of a side in priority order.
func (b *Books) Depth(s domain.Side, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	b.side(s).walk(func(e Entry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == e.Price {
			levels[len(levels)-1].Size += e.Sizes.Available
			levels[len(levels)-1].Entries++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:   e.Price,
			Size:    e.Sizes.Available,
			Entries: 1,
		})
		return true
	})
	return levels
}

// VolumeAt returns the total available size resting at the given price
// on a side.
func (b *Books) VolumeAt(s domain.Side, price domain.Price) int64 {
	var total int64
	b.side(s).walk(func(e Entry) bool {
		if e.Price == price {
			total += e.Sizes.Available
		}
		// Sides are price-ordered, so once past the price we are done.
		if e.Side.Multiplier()*int64(e.Price) > e.Side.Multiplier()*int64(price) {
			return false
		}
		return true
	})
	return total
}

// EntriesOwnedBy returns every resting entry of the given client, bids
// first, each side in priority order.
func (b *Books) EntriesOwnedBy(c domain.Client) []Entry {
	return b.find(func(e Entry) bool { return e.Client == c })
}

// Quotes returns every resting quote entry of the given client.
func (b *Books) Quotes(c domain.Client) []Entry {
	return b.find(func(e Entry) bool { return e.IsQuote && e.Client == c })
}

func (b *Books) find(match func(Entry) bool) []Entry {
	var out []Entry
	for _, s := range []*sideBook{b.bids, b.asks} {
		s.walk(func(e Entry) bool {
			if match(e) {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}
