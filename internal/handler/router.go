// Package handler is the HTTP surface around the venue: pull-style
// market-data queries over current book snapshots, and the order/quote
// entry endpoints that decode JSON into commands for the sequencer.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/openvenue/matchbook/internal/sequencer"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(seq *sequencer.Sequencer, tape TradeReader, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	booksH := NewBooksHandler(seq, tape)
	entryH := NewEntryHandler(seq)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Market data.
	r.Get("/books", booksH.List)
	r.Get("/books/{book_id}", booksH.Top)
	r.Get("/books/{book_id}/depth", booksH.Depth)
	r.Get("/books/{book_id}/trades", booksH.Trades)

	// Order entry.
	r.Post("/orders", entryH.PlaceOrder)
	r.Post("/quotes", entryH.PlaceMassQuote)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration.
func requestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON validates Content-Type for POST, PUT, and PATCH
// requests before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
