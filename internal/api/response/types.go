package response

import (
	"time"

	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/game"
)

// Player is a player as exposed over the API. The secret value is
// never included, only whether it has been committed.
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	SecretSet   bool      `json:"secret_set"`
	Score       int       `json:"score"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Turn is one entry of a session's guess history.
type Turn struct {
	PlayerID         string `json:"player_id"`
	Guess            string `json:"guess"`
	CorrectPositions int    `json:"correct_positions"`
	CorrectDigits    int    `json:"correct_digits"`
	Result           string `json:"result"`
	Winning          bool   `json:"winning"`
}

// Session is the API view of a session's state.
type Session struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Players   []Player  `json:"players"`
	History   []Turn    `json:"history"`
	WhoseTurn string    `json:"whose_turn,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession is the response to a session creation request.
type CreateSession struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

// JoinSession is the response to a join request.
type JoinSession struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

// GuessResult is the response to a guess submission.
type GuessResult struct {
	Guess            string `json:"guess"`
	CorrectPositions int    `json:"correct_positions"`
	CorrectDigits    int    `json:"correct_digits"`
	Result           string `json:"result"`
	GameOver         bool   `json:"game_over"`
	Winner           string `json:"winner,omitempty"`
	NextPlayer       string `json:"next_player,omitempty"`
}

// Health is the health check response.
type Health struct {
	Status string `json:"status"`
}

// SessionFromSnapshot converts a model snapshot into the API view.
func SessionFromSnapshot(snap model.Snapshot) Session {
	players := make([]Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, Player{
			ID:          string(p.ID),
			DisplayName: p.DisplayName,
			SecretSet:   p.SecretSet,
			Score:       p.Score,
			JoinedAt:    p.JoinedAt,
		})
	}
	history := make([]Turn, 0, len(snap.History))
	for _, t := range snap.History {
		history = append(history, Turn{
			PlayerID:         string(t.PlayerID),
			Guess:            t.Guess,
			CorrectPositions: t.CorrectPositions,
			CorrectDigits:    t.CorrectDigits,
			Result:           t.Result(),
			Winning:          t.Winning,
		})
	}
	return Session{
		ID:        string(snap.ID),
		Status:    string(snap.Status),
		Players:   players,
		History:   history,
		WhoseTurn: string(snap.WhoseTurn),
		CreatedAt: snap.CreatedAt,
	}
}

// GuessResultFrom converts a game guess result into the API view.
func GuessResultFrom(res game.GuessResult) GuessResult {
	return GuessResult{
		Guess:            res.Guess,
		CorrectPositions: res.CorrectPositions,
		CorrectDigits:    res.CorrectDigits,
		Result:           res.Result(),
		GameOver:         res.GameOver,
		Winner:           string(res.Winner),
		NextPlayer:       string(res.NextPlayer),
	}
}
