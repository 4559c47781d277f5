package domain

// Price is a normalised integer price in ticks. The instrument defines
// the decimal-place constant, e.g. 1234 represents 12.34 when the
// instrument quotes two decimal places. Zero means "no price" (market
// entries); resting book entries always carry a positive price.
type Price int64

// None is the absent price carried by market entries.
const None Price = 0

// IsSet reports whether the price is present.
func (p Price) IsSet() bool {
	return p != None
}

// Betters reports whether p is at least as good as other from the
// point of view of side: a buy betters at higher prices, a sell at
// lower ones. Both prices must be set.
func (p Price) Betters(side Side, other Price) bool {
	return side.Multiplier()*int64(p) <= side.Multiplier()*int64(other)
}

// OnTick reports whether p is a multiple of the tick size. A tick of
// zero or one accepts every price.
func (p Price) OnTick(tick int64) bool {
	if tick <= 1 {
		return true
	}
	return int64(p)%tick == 0
}

// SizeAtPrice is one price level's worth of volume: the bid or offer
// leg of a quote entry.
type SizeAtPrice struct {
	Price Price
	Size  int64
}
