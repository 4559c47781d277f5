package domain

// TradingStatus is the per-book trading phase. Only an open book
// accepts placements; everything else rejects them.
type TradingStatus string

const (
	TradingStatusOpen   TradingStatus = "open_for_trading"
	TradingStatusHalted TradingStatus = "halted"
	TradingStatusClosed TradingStatus = "closed"
)

// AllowsPlacement reports whether new orders and quotes are accepted.
func (s TradingStatus) AllowsPlacement() bool {
	return s == TradingStatusOpen
}
