package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/sequencer"
	"github.com/openvenue/matchbook/internal/store"
)

// TradeReader is the slice of the trade tape the market-data handlers
// need.
type TradeReader interface {
	Recent(id domain.BookID, n int) []store.TradePrint
}

// BooksHandler serves the read-only market-data endpoints. Every
// response is computed from one immutable snapshot, so a single
// request never observes a half-applied command.
type BooksHandler struct {
	seq  *sequencer.Sequencer
	tape TradeReader
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(seq *sequencer.Sequencer, tape TradeReader) *BooksHandler {
	return &BooksHandler{seq: seq, tape: tape}
}

type levelResponse struct {
	Price   int64 `json:"price"`
	Size    int64 `json:"size"`
	Entries int   `json:"entries"`
}

type topResponse struct {
	BookID      string         `json:"book_id"`
	Status      string         `json:"status"`
	BestBid     *levelResponse `json:"best_bid"`
	BestAsk     *levelResponse `json:"best_ask"`
	BidEntries  int            `json:"bid_entries"`
	AskEntries  int            `json:"ask_entries"`
	LastEventID int64          `json:"last_event_id"`
}

type depthResponse struct {
	BookID string          `json:"book_id"`
	Bids   []levelResponse `json:"bids"`
	Asks   []levelResponse `json:"asks"`
}

type tradeResponse struct {
	TradeID    string `json:"trade_id"`
	Price      int64  `json:"price"`
	Size       int64  `json:"size"`
	OccurredAt string `json:"occurred_at"`
}

// List returns the registered book ids.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.seq.Books()
	books := make([]string, len(ids))
	for i, id := range ids {
		books[i] = string(id)
	}
	sort.Strings(books)
	WriteJSON(w, http.StatusOK, map[string][]string{"books": books})
}

// Top returns the top of book for one instrument.
func (h *BooksHandler) Top(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	resp := topResponse{
		BookID:      string(snapshot.ID()),
		Status:      string(snapshot.Status()),
		BidEntries:  snapshot.Len(domain.SideBuy),
		AskEntries:  snapshot.Len(domain.SideSell),
		LastEventID: int64(snapshot.LastEventID()),
	}
	if levels := snapshot.Depth(domain.SideBuy, 1); len(levels) > 0 {
		resp.BestBid = toLevelResponse(levels[0])
	}
	if levels := snapshot.Depth(domain.SideSell, 1); len(levels) > 0 {
		resp.BestAsk = toLevelResponse(levels[0])
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Depth returns aggregated price levels per side. The levels query
// parameter caps the depth, default 10.
func (h *BooksHandler) Depth(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	levels := queryInt(r, "levels", 10)

	resp := depthResponse{
		BookID: string(snapshot.ID()),
		Bids:   toLevelResponses(snapshot.Depth(domain.SideBuy, levels)),
		Asks:   toLevelResponses(snapshot.Depth(domain.SideSell, levels)),
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Trades returns recent prints, newest first. The limit query
// parameter caps the count, default 50.
func (h *BooksHandler) Trades(w http.ResponseWriter, r *http.Request) {
	id := domain.BookID(chi.URLParam(r, "book_id"))
	if _, err := h.seq.Snapshot(id); err != nil {
		WriteError(w, http.StatusNotFound, "book_not_found", "unknown book id")
		return
	}
	limit := queryInt(r, "limit", 50)

	prints := h.tape.Recent(id, limit)
	trades := make([]tradeResponse, len(prints))
	for i, p := range prints {
		trades[i] = tradeResponse{
			TradeID:    p.TradeID,
			Price:      int64(p.Price),
			Size:       p.Size,
			OccurredAt: p.OccurredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
	}
	WriteJSON(w, http.StatusOK, map[string][]tradeResponse{"trades": trades})
}

func (h *BooksHandler) snapshot(w http.ResponseWriter, r *http.Request) (*book.Books, bool) {
	id := domain.BookID(chi.URLParam(r, "book_id"))
	snapshot, err := h.seq.Snapshot(id)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			WriteError(w, http.StatusNotFound, "book_not_found", "unknown book id")
		} else {
			WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return nil, false
	}
	return snapshot, true
}

func toLevelResponse(l book.PriceLevel) *levelResponse {
	return &levelResponse{Price: int64(l.Price), Size: l.Size, Entries: l.Entries}
}

func toLevelResponses(levels []book.PriceLevel) []levelResponse {
	out := make([]levelResponse, len(levels))
	for i, l := range levels {
		out[i] = *toLevelResponse(l)
	}
	return out
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}
