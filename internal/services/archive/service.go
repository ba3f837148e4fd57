package archive

import (
	"context"
	"log/slog"

	"github.com/pveiga/digitduel/internal/dependencies/clock"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/storage"
)

// Service writes terminal session outcomes to the match archive and
// serves them back. Archiving is best-effort: a storage failure is logged
// and never surfaces to the player whose action ended the match.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new archive Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "archive")),
	}
}

// Record archives a finished session from its snapshot
func (s *Service) Record(ctx context.Context, snap model.Snapshot, outcome model.MatchOutcome, winner model.PlayerID) {
	players := make([]model.MatchPlayer, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = model.MatchPlayer{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
		}
	}

	turns := make([]model.MatchTurn, len(snap.History))
	for i, t := range snap.History {
		turns[i] = model.MatchTurn{
			PlayerID:         t.PlayerID,
			Guess:            t.Guess,
			CorrectPositions: t.CorrectPositions,
			CorrectDigits:    t.CorrectDigits,
			Result:           t.Result(),
			Winning:          t.Winning,
		}
	}

	record := &model.MatchRecord{
		SessionID: snap.ID,
		Outcome:   outcome,
		Winner:    winner,
		Players:   players,
		Turns:     turns,
		CreatedAt: snap.CreatedAt,
		EndedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveMatch(ctx, record); err != nil {
		s.logger.Error("failed to archive match",
			slog.String("session_id", string(snap.ID)),
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("match archived",
		slog.String("session_id", string(snap.ID)),
		slog.String("outcome", string(outcome)),
		slog.Int("turns", len(turns)),
	)
}

// GetMatch returns an archived match by session id
func (s *Service) GetMatch(ctx context.Context, id model.SessionID) (*model.MatchRecord, error) {
	return s.storage.GetMatch(ctx, id)
}

// RecentMatches returns up to limit archived matches, newest first
func (s *Service) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	return s.storage.ListMatches(ctx, limit)
}
