package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrInvalidSecret = errors.New("secret must be a 4 digit number with all digits distinct")
	ErrInvalidGuess  = errors.New("guess must be a 4 digit number with all digits distinct")

	// Session state errors
	ErrSessionFull      = errors.New("session already has two players")
	ErrSecretAlreadySet = errors.New("secret has already been committed")
	ErrSessionNotReady  = errors.New("session is not ready for guessing")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrGameOver         = errors.New("game is already over")
	ErrSessionAbandoned = errors.New("session has been abandoned")

	// Lookup errors
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found in session")
	ErrMatchNotFound   = errors.New("match record not found")

	// Collision errors
	ErrSessionExists = errors.New("session id already in use")
	ErrPlayerExists  = errors.New("player id already in session")
)
