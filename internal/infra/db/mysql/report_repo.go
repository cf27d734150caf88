package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/mindtype/insights/internal/domain/reports"
)

// ReportRepository stores one JSON blob per report so every field the model
// produced round-trips without a schema migration.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Migrate creates the history table if it does not exist.
func (r *ReportRepository) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS personality_reports (
  user_id  VARCHAR(191) NOT NULL,
  ts       VARCHAR(64)  NOT NULL,
  language VARCHAR(16)  NOT NULL,
  report   LONGTEXT     NOT NULL,
  PRIMARY KEY (user_id, ts, language)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *ReportRepository) upsert(ctx context.Context, userID, ts, language string, rep *domain.Report) error {
	blob, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	const q = `
INSERT INTO personality_reports (user_id, ts, language, report)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE report=VALUES(report);`
	_, err = r.db.ExecContext(ctx, q, userID, ts, language, blob)
	return err
}

func (r *ReportRepository) Append(ctx context.Context, userID string, rep *domain.Report) error {
	return r.upsert(ctx, userID, rep.Timestamp, rep.Language, rep)
}

// Update upserts by (timestamp, language): an unmatched key inserts.
func (r *ReportRepository) Update(ctx context.Context, userID, timestamp, language string, rep *domain.Report) error {
	return r.upsert(ctx, userID, timestamp, language, rep)
}

// List returns reports newest first. RFC 3339 timestamps sort lexically.
func (r *ReportRepository) List(ctx context.Context, userID string) ([]*domain.Report, error) {
	const q = `
SELECT report FROM personality_reports
WHERE user_id=? ORDER BY ts DESC, language ASC;`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var rep domain.Report
		if err := json.Unmarshal(blob, &rep); err != nil {
			return nil, fmt.Errorf("decoding report: %w", err)
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM personality_reports WHERE user_id=?;`, userID)
	return err
}
