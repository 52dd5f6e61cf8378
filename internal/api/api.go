// Package api exposes the card catalog and quiz sessions over HTTP and
// websockets.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
	"github.com/p-n-ai/swipe-quiz/internal/deck"
	"github.com/p-n-ai/swipe-quiz/internal/session"
	"github.com/p-n-ai/swipe-quiz/internal/verdict"
)

// CatalogSource builds the current card catalog.
type CatalogSource interface {
	Build(ctx context.Context) (cards.Catalog, error)
}

// Config holds dependencies for the API handlers.
type Config struct {
	Catalog      CatalogSource
	Sessions     *session.Service
	SecureCookie bool
}

// Handler serves the quiz API.
type Handler struct {
	catalog      CatalogSource
	sessions     *session.Service
	secureCookie bool
}

// New creates the API handler.
func New(cfg Config) *Handler {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewService(session.ServiceConfig{})
	}
	return &Handler{
		catalog:      cfg.Catalog,
		sessions:     sessions,
		secureCookie: cfg.SecureCookie,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cards", h.handleCards)

	mux.Handle("GET /api/session", h.withSession(h.sessionAction(actionState)))
	mux.Handle("POST /api/session/answer", h.withSession(http.HandlerFunc(h.handleAnswer)))
	mux.Handle("POST /api/session/advance", h.withSession(h.sessionAction(actionAdvance)))
	mux.Handle("POST /api/session/reshuffle", h.withSession(h.sessionAction(actionReshuffle)))
	mux.Handle("POST /api/session/reset", h.withSession(h.sessionAction(actionReset)))

	mux.Handle("GET /api/play", h.withSession(http.HandlerFunc(h.handlePlay)))
}

func (h *Handler) handleCards(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Build(r.Context())
	if err != nil {
		slog.Error("catalog build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "content unavailable")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a session error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, verdict.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, deck.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
