package kv

import (
	"context"
	"sync"

	domain "github.com/mindtype/insights/internal/domain/reports"
)

// MemoryStore is the process-local history store, used for tests and the
// "memory" storage backend. Same ordering and upsert semantics as RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	byUserID map[string][]*domain.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUserID: make(map[string][]*domain.Report)}
}

func (s *MemoryStore) Append(_ context.Context, userID string, r *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUserID[userID] = append(s.byUserID[userID], r)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, userID, timestamp, language string, r *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.byUserID[userID]
	for i, existing := range history {
		if existing.Timestamp == timestamp && existing.Language == language {
			history[i] = r
			return nil
		}
	}
	s.byUserID[userID] = append(history, r)
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.byUserID[userID]
	out := make([]*domain.Report, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUserID, userID)
	return nil
}
