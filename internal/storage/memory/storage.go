package memory

import (
	"context"
	"sync"

	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	matches map[model.SessionID]*model.MatchRecord
	order   []model.SessionID // insertion order, newest last
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.SessionID]*model.MatchRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, record *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[record.SessionID]; !ok {
		s.order = append(s.order, record.SessionID)
	}
	s.matches[record.SessionID] = record
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.SessionID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return record, nil
}

func (s *Storage) ListMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.MatchRecord
	// Newest first
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if record, ok := s.matches[s.order[i]]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
