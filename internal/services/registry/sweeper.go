package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/pveiga/digitduel/internal/dependencies/clock"
	"github.com/pveiga/digitduel/internal/model"
)

const (
	// DefaultSweepInterval is how often the sweeper scans the registry
	DefaultSweepInterval = 15 * time.Minute
	// DefaultIdleTimeout is how long a session may go without an accepted
	// mutating action before it is evicted
	DefaultIdleTimeout = 10 * time.Minute
)

// Sweeper periodically evicts idle sessions from the registry. Eviction is
// unconditional and silent: still-connected players are not notified, they
// simply find the session gone on their next request.
type Sweeper struct {
	registry *Registry
	clock    clock.Clock
	logger   *slog.Logger

	interval  time.Duration
	idleAfter time.Duration

	// OnEvict, when set, receives a snapshot of each evicted session.
	// It runs outside the session lock and must not block.
	OnEvict func(model.Snapshot)
}

// NewSweeper creates a Sweeper over the given registry
func NewSweeper(registry *Registry, clk clock.Clock, interval, idleAfter time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if idleAfter <= 0 {
		idleAfter = DefaultIdleTimeout
	}
	return &Sweeper{
		registry:  registry,
		clock:     clk,
		logger:    logger.With(slog.String("component", "sweeper")),
		interval:  interval,
		idleAfter: idleAfter,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started",
		slog.Duration("interval", s.interval),
		slog.Duration("idle_timeout", s.idleAfter),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		}
	}
}

// SweepOnce scans the registry and evicts every session whose last
// activity predates the idle threshold. Returns the number evicted.
func (s *Sweeper) SweepOnce() int {
	cutoff := s.clock.Now().Add(-s.idleAfter)
	evicted := 0

	for _, sess := range s.registry.All() {
		sess.Lock()
		idle := sess.LastActivityAt.Before(cutoff)
		var snap model.Snapshot
		if idle {
			snap = sess.Snapshot()
		}
		sess.Unlock()

		if !idle {
			continue
		}

		s.registry.Delete(snap.ID)
		evicted++
		s.logger.Info("idle session evicted",
			slog.String("session_id", string(snap.ID)),
			slog.Time("last_activity_at", snap.LastActivityAt),
		)

		if s.OnEvict != nil {
			s.OnEvict(snap)
		}
	}

	return evicted
}
