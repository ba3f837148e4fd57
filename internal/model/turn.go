package model

import "fmt"

// TurnRecord is one entry in a session's append-only turn history.
// Records are never reordered or edited after being appended.
type TurnRecord struct {
	PlayerID         PlayerID
	Guess            string
	CorrectPositions int
	CorrectDigits    int
	Winning          bool
}

// Result renders the turn outcome in the "+positions, -digits" form
// shown to players in the history view
func (t TurnRecord) Result() string {
	return fmt.Sprintf("+%d, -%d", t.CorrectPositions, t.CorrectDigits)
}
