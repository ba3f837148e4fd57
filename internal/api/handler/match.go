package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pveiga/digitduel/internal/api/apierr"
	"github.com/pveiga/digitduel/internal/api/response"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/archive"
)

const defaultMatchListLimit = 20

// MatchHandler serves archived match records
type MatchHandler struct {
	archive *archive.Service
	logger  *slog.Logger
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(archiveService *archive.Service, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		archive: archiveService,
		logger:  logger.With(slog.String("component", "match_handler")),
	}
}

// ListMatches handles GET /api/v1/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit := defaultMatchListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	matches, err := h.archive.RecentMatches(r.Context(), limit)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, matches)
}

// GetMatch handles GET /api/v1/matches/{sessionId}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	match, err := h.archive.GetMatch(r.Context(), sessionID)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, match)
}
