package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/p-n-ai/swipe-quiz/internal/session"
	"github.com/p-n-ai/swipe-quiz/internal/verdict"
)

// SessionCookie names the cookie carrying the player's session ID. It has
// no Max-Age and so lasts for the browser session.
const SessionCookie = "quiz_sid"

const maxBodyBytes = 1 << 10

type ctxKey struct{}

type action string

const (
	actionState     action = "state"
	actionAnswer    action = "answer"
	actionAdvance   action = "advance"
	actionReshuffle action = "reshuffle"
	actionReset     action = "reset"
)

type answerRequest struct {
	Choice string `json:"choice"`
}

// withSession makes sure the request carries a session ID, issuing a new
// cookie when it does not.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sid = id.String()
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sid)))
	})
}

func sessionID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}

func (h *Handler) sessionAction(a action) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, a, verdict.Unknown)
	})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	choice, err := verdict.ParseChoice(req.Choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, r, actionAnswer, choice)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, a action, choice verdict.Answer) {
	view, err := h.run(r.Context(), sessionID(r.Context()), a, choice)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("session action failed", "action", a, "error", err)
			writeError(w, status, "session unavailable")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// run applies one action to the session against a freshly built catalog.
func (h *Handler) run(ctx context.Context, sid string, a action, choice verdict.Answer) (session.View, error) {
	cat, err := h.catalog.Build(ctx)
	if err != nil {
		return session.View{}, err
	}

	switch a {
	case actionState:
		return h.sessions.State(ctx, sid, cat.Items)
	case actionAnswer:
		return h.sessions.Answer(ctx, sid, cat.Items, choice)
	case actionAdvance:
		return h.sessions.Advance(ctx, sid, cat.Items)
	case actionReshuffle:
		return h.sessions.Reshuffle(ctx, sid, cat.Items)
	case actionReset:
		return h.sessions.ResetScore(ctx, sid, cat.Items)
	default:
		return session.View{}, fmt.Errorf("unknown action %q", a)
	}
}
