package model

import (
	"sync"
	"time"
)

// SessionID uniquely identifies a game session
type SessionID string

// SessionStatus represents the current phase of a session
type SessionStatus string

const (
	StatusEmpty             SessionStatus = "empty"               // No players yet
	StatusWaitingForPlayers SessionStatus = "waiting_for_players" // One player, waiting for an opponent
	StatusWaitingForSecrets SessionStatus = "waiting_for_secrets" // Two players, not all secrets committed
	StatusInProgress        SessionStatus = "in_progress"         // First guess accepted
	StatusOver              SessionStatus = "over"                // A guess scored four correct positions
	StatusAbandoned         SessionStatus = "abandoned"           // Session emptied before completion
)

// MaxPlayers is the fixed player capacity of a session
const MaxPlayers = 2

// Session represents one two-player match.
//
// The embedded mutex is the session's single mutual-exclusion domain: every
// mutating operation (add player, commit secret, guess, remove player) must
// run with it held. Callers outside the game controller should treat a
// Session as opaque.
type Session struct {
	sync.Mutex

	ID      SessionID
	Players []*Player // ordered by join time, at most MaxPlayers
	History []TurnRecord
	Status  SessionStatus

	// WhoseTurn is empty until the first accepted guess establishes turn
	// order; from then on it is mutated only by the guess transition.
	WhoseTurn PlayerID

	CreatedAt      time.Time
	LastActivityAt time.Time
	StartedAt      *time.Time
}

// NewSession creates an empty session
func NewSession(id SessionID, now time.Time) *Session {
	return &Session{
		ID:             id,
		Status:         StatusEmpty,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// PlayerByID returns the player with the given id, or nil
func (s *Session) PlayerByID(id PlayerID) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other player relative to id, or nil if the session
// does not hold two players
func (s *Session) Opponent(id PlayerID) *Player {
	if len(s.Players) != MaxPlayers {
		return nil
	}
	if s.Players[0].ID == id {
		return s.Players[1]
	}
	if s.Players[1].ID == id {
		return s.Players[0]
	}
	return nil
}

// IsFull reports whether the session holds two players
func (s *Session) IsFull() bool {
	return len(s.Players) == MaxPlayers
}

// IsReady reports whether guessing may begin: two players, both secrets set.
// There is no explicit start transition; readiness is implicit.
func (s *Session) IsReady() bool {
	if !s.IsFull() {
		return false
	}
	for _, p := range s.Players {
		if !p.Secret.IsSet() {
			return false
		}
	}
	return true
}

// IsStarted reports whether at least one guess has been accepted
func (s *Session) IsStarted() bool {
	return s.StartedAt != nil
}

// IsOver reports whether the session reached a terminal state
func (s *Session) IsOver() bool {
	return s.Status == StatusOver || s.Status == StatusAbandoned
}

// Touch advances the activity timestamp. Called on every accepted
// mutating action; LastActivityAt never moves backwards.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivityAt) {
		s.LastActivityAt = now
	}
}

// PlayerSnapshot is the per-player portion of a session snapshot
type PlayerSnapshot struct {
	ID          PlayerID
	DisplayName string
	SecretSet   bool
	Score       int
	JoinedAt    time.Time
}

// Snapshot is a read-only view of session state, used by clients to
// reconcile after reconnection
type Snapshot struct {
	ID             SessionID
	Status         SessionStatus
	IsFull         bool
	IsReady        bool
	IsStarted      bool
	IsOver         bool
	WhoseTurn      PlayerID
	Players        []PlayerSnapshot
	History        []TurnRecord
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// Snapshot captures the current state. The caller must hold the session lock.
func (s *Session) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerSnapshot{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			SecretSet:   p.Secret.IsSet(),
			Score:       p.Score,
			JoinedAt:    p.JoinedAt,
		}
	}
	history := make([]TurnRecord, len(s.History))
	copy(history, s.History)

	return Snapshot{
		ID:             s.ID,
		Status:         s.Status,
		IsFull:         s.IsFull(),
		IsReady:        s.IsReady(),
		IsStarted:      s.IsStarted(),
		IsOver:         s.IsOver(),
		WhoseTurn:      s.WhoseTurn,
		Players:        players,
		History:        history,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}
