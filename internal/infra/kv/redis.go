package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domain "github.com/mindtype/insights/internal/domain/reports"
)

// RedisStore keeps one JSON document per user holding the full report
// history, the server-side equivalent of the browser-local key-value layout.
// Access is read-then-write; concurrent writers race and last write wins,
// which is the accepted contract for this store.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "insights"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return fmt.Sprintf("%s:history:%s", s.prefix, userID)
}

// load returns the stored history in append order (oldest first).
func (s *RedisStore) load(ctx context.Context, userID string) ([]*domain.Report, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []*domain.Report
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("decoding stored history: %w", err)
	}
	return history, nil
}

func (s *RedisStore) save(ctx context.Context, userID string, history []*domain.Report) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID), raw, 0).Err()
}

func (s *RedisStore) Append(ctx context.Context, userID string, r *domain.Report) error {
	history, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	return s.save(ctx, userID, append(history, r))
}

// Update replaces the entry matching timestamp+language, inserting when no
// entry matches (upsert).
func (s *RedisStore) Update(ctx context.Context, userID, timestamp, language string, r *domain.Report) error {
	history, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	for i, existing := range history {
		if existing.Timestamp == timestamp && existing.Language == language {
			history[i] = r
			return s.save(ctx, userID, history)
		}
	}
	return s.save(ctx, userID, append(history, r))
}

// List returns reports newest first.
func (s *RedisStore) List(ctx context.Context, userID string) ([]*domain.Report, error) {
	history, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Report, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
