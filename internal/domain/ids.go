package domain

import "fmt"

// BookID identifies one instrument's order book. It is opaque to the
// matching core and stable for the book's lifetime.
type BookID string

// EventID is the strictly increasing per-book sequence number stamped
// on every event. It doubles as the arrival-order tie-breaker for
// resting entries at the same price.
type EventID int64

// Next returns the following event id.
func (id EventID) Next() EventID {
	return id + 1
}

// IsNextOf reports whether id directly follows other.
func (id EventID) IsNextOf(other EventID) bool {
	return id == other+1
}

// Client identifies the owner of an order or quote. FirmClientID is
// empty when the firm trades on its own account.
type Client struct {
	FirmID       string
	FirmClientID string
}

func (c Client) String() string {
	if c.FirmClientID == "" {
		return c.FirmID
	}
	return fmt.Sprintf("%s/%s", c.FirmID, c.FirmClientID)
}

// ClientRequestID ties an entry back to the request that created it.
// For orders only Current is set. For quote entries, Current is the
// quote entry id, CollectionID the quote set id and ParentID the quote
// id, so all legs of one mass quote share a ParentID.
type ClientRequestID struct {
	Current      string
	CollectionID string
	ParentID     string
}
