package request

// CreateSession is the request body for creating a session.
type CreateSession struct {
	DisplayName string `json:"display_name"`
}

// JoinSession is the request body for joining an existing session.
type JoinSession struct {
	DisplayName string `json:"display_name"`
}

// SubmitSecret is the request body for committing a player's secret.
type SubmitSecret struct {
	PlayerID string `json:"player_id"`
	Secret   string `json:"secret"`
}

// SubmitGuess is the request body for making a guess.
type SubmitGuess struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
}

// QuitSession is the request body for leaving a session.
type QuitSession struct {
	PlayerID string `json:"player_id"`
}
