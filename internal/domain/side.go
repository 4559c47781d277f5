package domain

// Side indicates whether an entry buys or sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Multiplier normalises price comparisons so that for both sides a
// "better" price compares lower: -1 for buy (highest first), 1 for
// sell (lowest first).
func (s Side) Multiplier() int64 {
	if s == SideBuy {
		return -1
	}
	return 1
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}
