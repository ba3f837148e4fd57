package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventSessionCreated  EventType = "session_created"
	EventPlayerJoined    EventType = "player_joined"
	EventSecretCommitted EventType = "secret_committed"
	EventGuessResult     EventType = "guess_result"
	EventTurnAdvanced    EventType = "turn_advanced"
	EventGameOver        EventType = "game_over"
	EventPlayerLeft      EventType = "player_left"
	EventError           EventType = "error"
)

// Event is the base structure for all outbound events
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID // The player who triggered or is affected
	Payload   any      // Type-specific data
}

// SessionCreatedPayload contains data for session created events
type SessionCreatedPayload struct {
	SessionID SessionID `json:"session_id"`
	PlayerID  PlayerID  `json:"player_id"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
}

// SecretCommittedPayload contains data for secret committed events.
// The secret itself is never broadcast.
type SecretCommittedPayload struct {
	PlayerID PlayerID `json:"player_id"`
}

// GuessResultPayload contains data for guess result events
type GuessResultPayload struct {
	PlayerID         PlayerID `json:"player_id"`
	Guess            string   `json:"guess"`
	CorrectDigits    int      `json:"correct_digits"`
	CorrectPositions int      `json:"correct_positions"`
}

// TurnAdvancedPayload contains data for turn advanced events
type TurnAdvancedPayload struct {
	NextPlayerID PlayerID `json:"next_player_id"`
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	WinnerID PlayerID `json:"winner_id"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
}

// ErrorPayload contains data for error events
type ErrorPayload struct {
	Reason string `json:"reason"`
}
