package store

import (
	"sync"
	"time"

	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/event"
)

// TradePrint is one public fill on the tape.
type TradePrint struct {
	TradeID    string
	Book       domain.BookID
	Price      domain.Price
	Size       int64
	OccurredAt time.Time
}

// TradeTape is a thread-safe, bounded record of recent trades per
// book, kept for the market-data query surface. Oldest prints fall off
// once the bound is reached.
type TradeTape struct {
	mu     sync.RWMutex
	bound  int
	prints map[domain.BookID][]TradePrint
}

// NewTradeTape creates a tape keeping up to bound prints per book.
func NewTradeTape(bound int) *TradeTape {
	return &TradeTape{
		bound:  bound,
		prints: make(map[domain.BookID][]TradePrint),
	}
}

// Record appends the fill to the book's tape.
func (t *TradeTape) Record(trade event.Trade) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prints := append(t.prints[trade.Book], TradePrint{
		TradeID:    trade.TradeID,
		Book:       trade.Book,
		Price:      trade.Price,
		Size:       trade.Size,
		OccurredAt: trade.OccurredAt,
	})
	if len(prints) > t.bound {
		prints = prints[len(prints)-t.bound:]
	}
	t.prints[trade.Book] = prints
}

// Recent returns up to n prints for a book, newest first.
func (t *TradeTape) Recent(id domain.BookID, n int) []TradePrint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prints := t.prints[id]
	if n > len(prints) {
		n = len(prints)
	}
	result := make([]TradePrint, 0, n)
	for i := len(prints) - 1; i >= len(prints)-n; i-- {
		result = append(result, prints[i])
	}
	return result
}
