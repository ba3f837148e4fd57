package storage

import (
	"context"

	"github.com/pveiga/digitduel/internal/model"
)

// Storage defines the interface for match archive persistence.
// Live session state is never stored here; only terminal outcomes.
type Storage interface {
	SaveMatch(ctx context.Context, record *model.MatchRecord) error
	GetMatch(ctx context.Context, id model.SessionID) (*model.MatchRecord, error)
	ListMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error)
	DeleteMatch(ctx context.Context, id model.SessionID) error
}
