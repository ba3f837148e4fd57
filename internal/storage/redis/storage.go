package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, record *model.MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := matchKey(record.SessionID)
	idx := matchIndexKey()

	// Pipeline keeps the record and its index entry in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	pipe.ZAdd(ctx, idx, redis.Z{
		Score:  float64(record.EndedAt.UnixNano()),
		Member: string(record.SessionID),
	})
	if s.cfg.MatchTTL > 0 {
		pipe.Expire(ctx, idx, s.cfg.MatchTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.SessionID) (*model.MatchRecord, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var record model.MatchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	// Newest first
	ids, err := s.client.ZRevRange(ctx, matchIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	var out []*model.MatchRecord
	for _, id := range ids {
		record, err := s.GetMatch(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				// Record expired after the index entry; skip it
				continue
			}
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.SessionID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, matchKey(id))
	pipe.ZRem(ctx, matchIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}
