package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/pveiga/digitduel/internal/dependencies/clock"
	"github.com/pveiga/digitduel/internal/dependencies/random"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/archive"
	"github.com/pveiga/digitduel/internal/services/game"
	"github.com/pveiga/digitduel/internal/services/registry"
	"github.com/pveiga/digitduel/internal/services/scoring"
	"github.com/pveiga/digitduel/internal/storage"
	"github.com/pveiga/digitduel/internal/storage/memory"
	redisstorage "github.com/pveiga/digitduel/internal/storage/redis"
	"github.com/pveiga/digitduel/internal/transport"
	"github.com/pveiga/digitduel/internal/transport/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage (archived match records only; live sessions are in-memory)
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry       *registry.Registry
	ScoringService *scoring.Service
	ArchiveService *archive.Service
	GameController *game.Controller
	Sweeper        *registry.Sweeper
	HubManager     *sse.HubManager
	Notifier       transport.Transport
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the archive backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SweepInterval is how often the idle sweeper runs (optional)
	SweepInterval time.Duration
	// IdleTimeout is how long a session may sit without activity before
	// being evicted (optional)
	IdleTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	sweepInterval := cfg.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = registry.DefaultSweepInterval
	}
	idleTimeout := cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = registry.DefaultIdleTimeout
	}

	return newWithDependencies(store, clk, rnd, sweepInterval, idleTimeout, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sweepInterval, idleTimeout time.Duration, logger *slog.Logger) *App {
	// Create services
	reg := registry.New()
	scoringService := scoring.New()
	archiveService := archive.New(store, clk, logger)
	hubManager := sse.NewHubManager(logger)
	notifier := sse.NewNotifier(hubManager, logger)
	gameController := game.NewController(reg, scoringService, archiveService, notifier, clk, rnd, logger)

	sweeper := registry.NewSweeper(reg, clk, sweepInterval, idleTimeout, logger)
	sweeper.OnEvict = func(snap model.Snapshot) {
		// Evicted sessions still get an archive record so the match
		// history shows why they disappeared.
		archiveService.Record(context.Background(), snap, model.OutcomeSwept, "")
		hubManager.RemoveHub(snap.ID)
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		ScoringService: scoringService,
		ArchiveService: archiveService,
		GameController: gameController,
		Sweeper:        sweeper,
		HubManager:     hubManager,
		Notifier:       notifier,
	}
}
