package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/engine"
	"github.com/openvenue/matchbook/internal/event"
	"github.com/openvenue/matchbook/internal/sequencer"
)

// EntryHandler decodes order-entry requests into commands and awaits
// their transactions. It is the "external decoder" collaborator of the
// matching core: the core only ever sees validated Command values.
type EntryHandler struct {
	seq *sequencer.Sequencer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(seq *sequencer.Sequencer) *EntryHandler {
	return &EntryHandler{seq: seq}
}

type placeOrderRequest struct {
	BookID       string `json:"book_id"`
	RequestID    string `json:"request_id"`
	FirmID       string `json:"firm_id"`
	FirmClientID string `json:"firm_client_id"`
	Type         string `json:"type"`
	Side         string `json:"side"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	TimeInForce  string `json:"time_in_force"`
}

type quoteLevelRequest struct {
	BidPrice   int64 `json:"bid_price"`
	BidSize    int64 `json:"bid_size"`
	OfferPrice int64 `json:"offer_price"`
	OfferSize  int64 `json:"offer_size"`
}

type placeMassQuoteRequest struct {
	BookID       string              `json:"book_id"`
	QuoteID      string              `json:"quote_id"`
	FirmID       string              `json:"firm_id"`
	FirmClientID string              `json:"firm_client_id"`
	TimeInForce  string              `json:"time_in_force"`
	Levels       []quoteLevelRequest `json:"levels"`
}

type fillResponse struct {
	TradeID string `json:"trade_id"`
	Price   int64  `json:"price"`
	Size    int64  `json:"size"`
}

type placementResponse struct {
	Status    string         `json:"status"`
	Reason    string         `json:"reason,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Traded    int64          `json:"traded"`
	Resting   int64          `json:"resting"`
	Cancelled int64          `json:"cancelled"`
	Fills     []fillResponse `json:"fills"`
}

// PlaceOrder handles POST /orders.
func (h *EntryHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.FirmID == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "firm_id is required")
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	cmd := engine.PlaceOrderCommand{
		RequestID:   domain.ClientRequestID{Current: req.RequestID},
		Client:      domain.Client{FirmID: req.FirmID, FirmClientID: req.FirmClientID},
		Book:        domain.BookID(req.BookID),
		Type:        domain.EntryType(req.Type),
		Side:        domain.Side(req.Side),
		Size:        req.Quantity,
		Price:       domain.Price(req.Price),
		TimeInForce: domain.TimeInForce(req.TimeInForce),
		SubmittedAt: time.Now(),
	}
	h.call(w, r, cmd)
}

// PlaceMassQuote handles POST /quotes.
func (h *EntryHandler) PlaceMassQuote(w http.ResponseWriter, r *http.Request) {
	var req placeMassQuoteRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.FirmID == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "firm_id is required")
		return
	}
	if req.QuoteID == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "quote_id is required")
		return
	}
	if req.TimeInForce == "" {
		req.TimeInForce = string(domain.GoodTillCancel)
	}

	setID := uuid.New().String()
	levels := make([]domain.QuoteEntry, len(req.Levels))
	for i, l := range req.Levels {
		level := domain.QuoteEntry{
			QuoteEntryID: uuid.New().String(),
			QuoteSetID:   setID,
		}
		if l.BidSize != 0 || l.BidPrice != 0 {
			level.Bid = &domain.SizeAtPrice{Price: domain.Price(l.BidPrice), Size: l.BidSize}
		}
		if l.OfferSize != 0 || l.OfferPrice != 0 {
			level.Offer = &domain.SizeAtPrice{Price: domain.Price(l.OfferPrice), Size: l.OfferSize}
		}
		levels[i] = level
	}

	cmd := engine.PlaceMassQuoteCommand{
		QuoteID:     req.QuoteID,
		Client:      domain.Client{FirmID: req.FirmID, FirmClientID: req.FirmClientID},
		Book:        domain.BookID(req.BookID),
		TimeInForce: domain.TimeInForce(req.TimeInForce),
		Entries:     levels,
		SubmittedAt: time.Now(),
	}
	h.call(w, r, cmd)
}

func (h *EntryHandler) call(w http.ResponseWriter, r *http.Request, cmd engine.Command) {
	txn, err := h.seq.Call(r.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			WriteError(w, http.StatusNotFound, "book_not_found", "unknown book id")
		case errors.Is(err, domain.ErrSequencerStopped):
			WriteError(w, http.StatusServiceUnavailable, "shutting_down", "venue is shutting down")
		default:
			WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	WriteJSON(w, statusFor(txn), toPlacementResponse(txn))
}

func statusFor(txn *engine.Transaction) int {
	if _, rejected := txn.Rejected(); rejected {
		return http.StatusUnprocessableEntity
	}
	return http.StatusCreated
}

func toPlacementResponse(txn *engine.Transaction) placementResponse {
	resp := placementResponse{Fills: []fillResponse{}}

	if rej, ok := txn.Rejected(); ok {
		resp.Status = "rejected"
		resp.Reason = string(rej.Reason)
		resp.Detail = rej.Text
		return resp
	}

	resp.Status = "accepted"
	for _, ev := range txn.Events {
		switch e := ev.(type) {
		case event.Trade:
			resp.Fills = append(resp.Fills, fillResponse{
				TradeID: e.TradeID,
				Price:   int64(e.Price),
				Size:    e.Size,
			})
			resp.Traded += e.Size
		case event.OrderPlaced:
			resp.Resting = e.Sizes.Available
			resp.Cancelled = e.Sizes.Cancelled
		case event.EntryAdded:
			if e.Entry.IsQuote {
				resp.Resting += e.Entry.Sizes.Available
			}
		}
	}
	return resp
}
