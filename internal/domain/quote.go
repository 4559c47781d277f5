package domain

// QuoteEntry is one price level of a mass quote: an optional bid leg
// and an optional offer leg. A level with neither leg carries no
// interest and is rejected at validation.
type QuoteEntry struct {
	QuoteEntryID string
	QuoteSetID   string
	Bid          *SizeAtPrice
	Offer        *SizeAtPrice
}

// RequestID derives the client request id for one of this level's book
// entries under the given quote id.
func (q QuoteEntry) RequestID(quoteID string) ClientRequestID {
	return ClientRequestID{
		Current:      q.QuoteEntryID,
		CollectionID: q.QuoteSetID,
		ParentID:     quoteID,
	}
}
