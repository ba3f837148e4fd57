package model

import "time"

// MatchOutcome describes how a match ended
type MatchOutcome string

const (
	OutcomeWon       MatchOutcome = "won"
	OutcomeAbandoned MatchOutcome = "abandoned"
	OutcomeSwept     MatchOutcome = "swept" // evicted by the idle sweeper
)

// MatchPlayer is the per-player portion of a match record
type MatchPlayer struct {
	ID          PlayerID `json:"id"`
	DisplayName string   `json:"display_name"`
	Score       int      `json:"score"`
}

// MatchTurn is one archived turn
type MatchTurn struct {
	PlayerID         PlayerID `json:"player_id"`
	Guess            string   `json:"guess"`
	CorrectPositions int      `json:"correct_positions"`
	CorrectDigits    int      `json:"correct_digits"`
	Result           string   `json:"result"` // "+positions, -digits"
	Winning          bool     `json:"winning"`
}

// MatchRecord is the archived summary of a finished session. Live session
// state is never persisted; only terminal outcomes are written here.
type MatchRecord struct {
	SessionID SessionID     `json:"session_id"`
	Outcome   MatchOutcome  `json:"outcome"`
	Winner    PlayerID      `json:"winner,omitempty"`
	Players   []MatchPlayer `json:"players"`
	Turns     []MatchTurn   `json:"turns"`
	CreatedAt time.Time     `json:"created_at"`
	EndedAt   time.Time     `json:"ended_at"`
}
