package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pveiga/digitduel/internal/api/apierr"
	"github.com/pveiga/digitduel/internal/api/response"
	"github.com/pveiga/digitduel/internal/dependencies/random"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/game"
	"github.com/pveiga/digitduel/internal/transport/sse"
)

const (
	handleLength   = 16
	handleAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// EventsHandler serves the per-session SSE event stream. Each connection
// mints a fresh transport handle and rebinds the player to it, so opening
// the stream doubles as reconnection.
type EventsHandler struct {
	game       game.ControllerInterface
	hubManager *sse.HubManager
	random     random.Random
	logger     *slog.Logger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(gameController game.ControllerInterface, hubManager *sse.HubManager, rnd random.Random, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		game:       gameController,
		hubManager: hubManager,
		random:     rnd,
		logger:     logger.With(slog.String("component", "events_handler")),
	}
}

// StreamEvents handles GET /api/v1/sessions/{sessionId}/events?player_id=...
func (h *EventsHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	handle := model.TransportHandle(h.random.String(handleLength, handleAlphabet))
	if _, err := h.game.Reconnect(r.Context(), sessionID, playerID, handle); err != nil {
		response.WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sessionID)

	h.logger.Info("event stream opened",
		slog.String("session_id", string(sessionID)),
		slog.String("player_id", string(playerID)),
	)

	sse.ServeSSE(w, r, hub, playerID, handle)
}
