package reports

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no stored report matches the lookup key.
var ErrNotFound = errors.New("report not found")

// Repository port for persisted report history, keyed by user identifier.
// Ordering is newest-first on List. Update has upsert semantics: when no
// entry matches timestamp+language the report is inserted instead.
// Last write wins; no transactional guarantees are required.
type Repository interface {
	Append(ctx context.Context, userID string, r *Report) error
	Update(ctx context.Context, userID, timestamp, language string, r *Report) error
	List(ctx context.Context, userID string) ([]*Report, error)
	Clear(ctx context.Context, userID string) error
}

// ArtifactStore port for exported report documents.
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
