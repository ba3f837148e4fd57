package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pveiga/digitduel/internal/api/handler"
	"github.com/pveiga/digitduel/internal/api/middleware"
	"github.com/pveiga/digitduel/internal/dependencies/random"
	"github.com/pveiga/digitduel/internal/services/archive"
	"github.com/pveiga/digitduel/internal/services/game"
	"github.com/pveiga/digitduel/internal/transport/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController game.ControllerInterface
	ArchiveService *archive.Service
	HubManager     *sse.HubManager
	Random         random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.GameController, cfg.Logger)
	matchHandler := handler.NewMatchHandler(cfg.ArchiveService, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.GameController, cfg.HubManager, cfg.Random, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.CreateSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}", sessionHandler.GetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{sessionId}/join", sessionHandler.JoinSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/secret", sessionHandler.SubmitSecret).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/guess", sessionHandler.SubmitGuess).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/quit", sessionHandler.QuitSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{sessionId}/events", eventsHandler.StreamEvents).Methods(http.MethodGet)

	// Archived match routes
	api.HandleFunc("/matches", matchHandler.ListMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/{sessionId}", matchHandler.GetMatch).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	return r
}
