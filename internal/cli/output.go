package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CreateResult:
		o.printCreateResult(v)
	case Session:
		o.printSession(v)
	case GuessResult:
		o.printGuessResult(v)
	case MatchRecord:
		o.printMatchRecord(v)
	case []MatchRecord:
		o.printMatchList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CreateResult is returned by session create and join
type CreateResult struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	SecretSet   bool   `json:"secret_set"`
	Score       int    `json:"score"`
}

// Turn response type
type Turn struct {
	PlayerID         string `json:"player_id"`
	Guess            string `json:"guess"`
	CorrectPositions int    `json:"correct_positions"`
	CorrectDigits    int    `json:"correct_digits"`
	Result           string `json:"result"`
	Winning          bool   `json:"winning"`
}

// Session response type
type Session struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Players   []Player  `json:"players"`
	History   []Turn    `json:"history"`
	WhoseTurn string    `json:"whose_turn,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GuessResult response type
type GuessResult struct {
	Guess            string `json:"guess"`
	CorrectPositions int    `json:"correct_positions"`
	CorrectDigits    int    `json:"correct_digits"`
	Result           string `json:"result"`
	GameOver         bool   `json:"game_over"`
	Winner           string `json:"winner,omitempty"`
	NextPlayer       string `json:"next_player,omitempty"`
}

// MatchPlayer response type
type MatchPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// MatchRecord response type
type MatchRecord struct {
	SessionID string        `json:"session_id"`
	Outcome   string        `json:"outcome"`
	Winner    string        `json:"winner,omitempty"`
	Players   []MatchPlayer `json:"players"`
	Turns     []Turn        `json:"turns"`
	CreatedAt time.Time     `json:"created_at"`
	EndedAt   time.Time     `json:"ended_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printCreateResult(r CreateResult) {
	fmt.Printf("Session: %s\n", r.SessionID)
	fmt.Printf("Player: %s\n", r.PlayerID)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		secretStr := "secret pending"
		if p.SecretSet {
			secretStr = "secret set"
		}
		turnStr := ""
		if s.WhoseTurn == p.ID {
			turnStr = " [to move]"
		}
		fmt.Printf("  - %s (%s) - %s, score %d%s\n", p.DisplayName, p.ID, secretStr, p.Score, turnStr)
	}

	if len(s.History) > 0 {
		fmt.Printf("History (%d turns):\n", len(s.History))
		for i, t := range s.History {
			winStr := ""
			if t.Winning {
				winStr = " (winning)"
			}
			fmt.Printf("  %2d. %s guessed %s -> %s%s\n", i+1, t.PlayerID, t.Guess, t.Result, winStr)
		}
	}
}

func (o *Output) printGuessResult(r GuessResult) {
	fmt.Printf("Guess %s: %s\n", r.Guess, r.Result)

	if r.GameOver {
		fmt.Println("Game over!")
		if r.Winner != "" {
			fmt.Printf("Winner: %s\n", r.Winner)
		}
	} else if r.NextPlayer != "" {
		fmt.Printf("Next to move: %s\n", r.NextPlayer)
	}
}

func (o *Output) printMatchRecord(m MatchRecord) {
	fmt.Printf("Match: %s\n", m.SessionID)
	fmt.Printf("Outcome: %s\n", m.Outcome)
	if m.Winner != "" {
		fmt.Printf("Winner: %s\n", m.Winner)
	}
	fmt.Printf("Ended: %s\n", m.EndedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Players (%d):\n", len(m.Players))
	for _, p := range m.Players {
		fmt.Printf("  - %s (%s) - score %d\n", p.DisplayName, p.ID, p.Score)
	}
	if len(m.Turns) > 0 {
		fmt.Printf("Turns (%d):\n", len(m.Turns))
		for i, t := range m.Turns {
			winStr := ""
			if t.Winning {
				winStr = " (winning)"
			}
			fmt.Printf("  %2d. %s guessed %s -> %s%s\n", i+1, t.PlayerID, t.Guess, t.Result, winStr)
		}
	}
}

func (o *Output) printMatchList(matches []MatchRecord) {
	if len(matches) == 0 {
		fmt.Println("No archived matches")
		return
	}
	for _, m := range matches {
		winnerStr := ""
		if m.Winner != "" {
			winnerStr = fmt.Sprintf(", winner %s", m.Winner)
		}
		fmt.Printf("%s  %-10s %2d turns%s\n", m.SessionID, m.Outcome, len(m.Turns), winnerStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
