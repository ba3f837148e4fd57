package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// TransportHandle is an opaque reference to the connection currently used
// to reach a player. It is replaced wholesale on reconnection.
type TransportHandle string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	Handle      TransportHandle
	Secret      Secret
	Score       int
	JoinedAt    time.Time
}

// NewPlayer creates a player with no secret committed yet
func NewPlayer(id PlayerID, displayName string, handle TransportHandle, joinedAt time.Time) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		Handle:      handle,
		JoinedAt:    joinedAt,
	}
}
