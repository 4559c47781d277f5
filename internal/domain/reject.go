package domain

// RejectReason is the closed set of business-rule failures. Rejections
// surface as events carrying one of these codes, never as errors.
type RejectReason string

const (
	RejectUnknownBook     RejectReason = "unknown_book"
	RejectVenueClosed     RejectReason = "venue_closed"
	RejectInvalidQuantity RejectReason = "invalid_quantity"
	RejectInvalidPrice    RejectReason = "invalid_price"
	RejectUnsupportedTIF  RejectReason = "unsupported_time_in_force"
	RejectCrossedQuote    RejectReason = "crossed_quote"
	RejectEmptyQuote      RejectReason = "empty_quote"
	RejectOther           RejectReason = "other"
)

// Rejection pairs a reject reason with human-readable detail.
type Rejection struct {
	Reason RejectReason
	Text   string
}
