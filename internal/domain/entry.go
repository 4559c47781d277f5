package domain

import "fmt"

// EntryType distinguishes priced limit entries from unpriced market
// entries.
type EntryType string

const (
	EntryTypeLimit  EntryType = "limit"
	EntryTypeMarket EntryType = "market"
)

// PriceRequired reports whether the entry type must carry a price.
// Market entries must not.
func (t EntryType) PriceRequired() bool {
	return t == EntryTypeLimit
}

// TimeInForce governs what happens to unmatched quantity.
type TimeInForce string

const (
	// GoodTillCancel rests any unmatched remainder on the book.
	GoodTillCancel TimeInForce = "GTC"
	// ImmediateOrCancel fills what crosses and discards the rest.
	ImmediateOrCancel TimeInForce = "IOC"
	// FillOrKill fills the whole size immediately or not at all.
	FillOrKill TimeInForce = "FOK"
)

// CanRest reports whether unmatched quantity may stay on the book.
func (t TimeInForce) CanRest() bool {
	return t == GoodTillCancel
}

// validCombos lists the time-in-force values each entry type supports.
var validCombos = map[EntryType][]TimeInForce{
	EntryTypeLimit:  {GoodTillCancel, ImmediateOrCancel, FillOrKill},
	EntryTypeMarket: {ImmediateOrCancel, FillOrKill},
}

// ValidCombo reports whether the entry type supports the given
// time-in-force.
func ValidCombo(entryType EntryType, tif TimeInForce) bool {
	for _, t := range validCombos[entryType] {
		if t == tif {
			return true
		}
	}
	return false
}

// EntryStatus is the lifecycle state of a book entry.
type EntryStatus string

const (
	EntryStatusNew         EntryStatus = "new"
	EntryStatusPartialFill EntryStatus = "partial_fill"
	EntryStatusFilled      EntryStatus = "filled"
	EntryStatusCancelled   EntryStatus = "cancelled"
)

// EntrySizes tracks how an entry's original quantity is split between
// still-available, traded and cancelled portions. The three always sum
// to the original size, so partial fills can never leak quantity.
type EntrySizes struct {
	Available int64
	Traded    int64
	Cancelled int64
}

// NewEntrySizes returns sizes for a fresh entry of the given quantity.
func NewEntrySizes(available int64) EntrySizes {
	if available < 0 {
		panic(fmt.Sprintf("entry sizes cannot be negative: available=%d", available))
	}
	return EntrySizes{Available: available}
}

// Trade moves size from available to traded.
func (s EntrySizes) Trade(size int64) EntrySizes {
	if size < 0 || size > s.Available {
		panic(fmt.Sprintf("trade size out of range: size=%d available=%d", size, s.Available))
	}
	return EntrySizes{
		Available: s.Available - size,
		Traded:    s.Traded + size,
		Cancelled: s.Cancelled,
	}
}

// Cancel moves all remaining available size to cancelled.
func (s EntrySizes) Cancel() EntrySizes {
	return EntrySizes{
		Traded:    s.Traded,
		Cancelled: s.Cancelled + s.Available,
	}
}

// Original returns the entry's original quantity.
func (s EntrySizes) Original() int64 {
	return s.Available + s.Traded + s.Cancelled
}

// StatusAfterTrade derives the entry status implied by the sizes after
// a fill.
func (s EntrySizes) StatusAfterTrade() EntryStatus {
	if s.Available == 0 {
		return EntryStatusFilled
	}
	return EntryStatusPartialFill
}
