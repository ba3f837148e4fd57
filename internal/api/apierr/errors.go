package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pveiga/digitduel/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidSecret    = "INVALID_SECRET"
	CodeInvalidGuess     = "INVALID_GUESS"
	CodeSessionFull      = "SESSION_FULL"
	CodeAlreadyCommitted = "ALREADY_COMMITTED"
	CodeNotReady         = "NOT_READY"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeGameOver         = "GAME_OVER"
	CodeSessionAbandoned = "SESSION_ABANDONED"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeMatchNotFound    = "MATCH_NOT_FOUND"
	CodeSessionExists    = "SESSION_EXISTS"
	CodePlayerExists     = "PLAYER_EXISTS"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidSecret):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSecret, "Secret must be a 4 digit number with all digits distinct"}}
	case errors.Is(err, model.ErrInvalidGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, "Guess must be a 4 digit number with all digits distinct"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session already has two players"}}
	case errors.Is(err, model.ErrSecretAlreadySet):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyCommitted, "Secret has already been committed"}}
	case errors.Is(err, model.ErrSessionNotReady):
		return &httpError{http.StatusConflict, APIError{CodeNotReady, "Both players must join and commit secrets first"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is already over"}}
	case errors.Is(err, model.ErrSessionAbandoned):
		return &httpError{http.StatusConflict, APIError{CodeSessionAbandoned, "Session has been abandoned"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found in session"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match record not found"}}
	case errors.Is(err, model.ErrSessionExists):
		return &httpError{http.StatusConflict, APIError{CodeSessionExists, "Session id already in use"}}
	case errors.Is(err, model.ErrPlayerExists):
		return &httpError{http.StatusConflict, APIError{CodePlayerExists, "Player id already in session"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
