package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pveiga/digitduel/internal/api/apierr"
	"github.com/pveiga/digitduel/internal/api/request"
	"github.com/pveiga/digitduel/internal/api/response"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/game"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	game   game.ControllerInterface
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(gameController game.ControllerInterface, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		game:   gameController,
		logger: logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.DisplayName == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("display_name is required"))
		return
	}

	snap, err := h.game.CreateSession(r.Context(), req.DisplayName, "", "")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, response.CreateSession{
		SessionID: string(snap.ID),
		PlayerID:  string(snap.Players[0].ID),
	})
}

// JoinSession handles POST /api/v1/sessions/{sessionId}/join
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	var req request.JoinSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.DisplayName == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("display_name is required"))
		return
	}

	snap, err := h.game.JoinSession(r.Context(), sessionID, req.DisplayName, "", "")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	// The joining player is always the most recently added one.
	joined := snap.Players[len(snap.Players)-1]
	response.WriteJSON(w, http.StatusOK, response.JoinSession{
		SessionID: string(snap.ID),
		PlayerID:  string(joined.ID),
	})
}

// GetSession handles GET /api/v1/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	snap, err := h.game.Status(r.Context(), sessionID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.SessionFromSnapshot(snap))
}

// SubmitSecret handles POST /api/v1/sessions/{sessionId}/secret
func (h *SessionHandler) SubmitSecret(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	var req request.SubmitSecret
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.PlayerID == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.game.SubmitSecret(r.Context(), sessionID, model.PlayerID(req.PlayerID), req.Secret); err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusNoContent, nil)
}

// SubmitGuess handles POST /api/v1/sessions/{sessionId}/guess
func (h *SessionHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	var req request.SubmitGuess
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.PlayerID == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	res, err := h.game.SubmitGuess(r.Context(), sessionID, model.PlayerID(req.PlayerID), req.Guess)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.GuessResultFrom(res))
}

// QuitSession handles POST /api/v1/sessions/{sessionId}/quit
func (h *SessionHandler) QuitSession(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	var req request.QuitSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.PlayerID == "" {
		response.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.game.QuitSession(r.Context(), sessionID, model.PlayerID(req.PlayerID)); err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusNoContent, nil)
}
