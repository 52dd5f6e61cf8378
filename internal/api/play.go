package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/swipe-quiz/internal/session"
	"github.com/p-n-ai/swipe-quiz/internal/verdict"
)

// command is one client message on the play socket.
type command struct {
	Action action `json:"action"`
	Choice string `json:"choice,omitempty"`
}

// reply answers one command with either the session view or an error.
type reply struct {
	View   *session.View `json:"view,omitempty"`
	Error  string        `json:"error,omitempty"`
	Status int           `json:"status"`
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxBodyBytes)

	ctx := r.Context()
	sid := sessionID(ctx)

	for {
		var cmd command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					slog.Debug("play socket closed", "error", err)
				}
			}
			return
		}

		if err := wsjson.Write(ctx, conn, h.play(ctx, sid, cmd)); err != nil {
			slog.Debug("play socket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) play(ctx context.Context, sid string, cmd command) reply {
	choice := verdict.Unknown
	switch cmd.Action {
	case actionState, actionAdvance, actionReshuffle, actionReset:
	case actionAnswer:
		c, err := verdict.ParseChoice(cmd.Choice)
		if err != nil {
			return reply{Error: err.Error(), Status: http.StatusBadRequest}
		}
		choice = c
	default:
		return reply{Error: "unknown action", Status: http.StatusBadRequest}
	}

	view, err := h.run(ctx, sid, cmd.Action, choice)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("session action failed", "action", cmd.Action, "error", err)
			return reply{Error: "session unavailable", Status: status}
		}
		return reply{Error: err.Error(), Status: status}
	}
	return reply{View: &view, Status: http.StatusOK}
}
