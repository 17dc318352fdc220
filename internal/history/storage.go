package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Storage is the PostgreSQL-backed download history.
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates a history storage on top of an existing database
// connection.
func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates the downloads table if it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS downloads (
			record_id   UUID PRIMARY KEY,
			job_id      UUID NOT NULL,
			topic       TEXT NOT NULL,
			data_id     TEXT NOT NULL,
			url         TEXT NOT NULL,
			path        TEXT NOT NULL,
			size_bytes  BIGINT NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			integrity   TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate downloads table: %w", err)
	}

	return nil
}

// Record inserts one download outcome.
func (s *Storage) Record(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO downloads (
			record_id, job_id, topic, data_id,
			url, path, size_bytes, duration_ms,
			integrity, status, error, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		rec.RecordID,
		rec.JobID,
		rec.Topic,
		rec.DataID,
		rec.URL,
		rec.Path,
		rec.SizeBytes,
		rec.DurationMs,
		rec.Integrity,
		rec.Status,
		rec.Error,
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}

	return nil
}

// Filter narrows a download history listing.
type Filter struct {
	Topic    string
	Status   string
	PageSize int
	Cursor   *Cursor
}

// Cursor is a keyset pagination cursor over (created_at, record_id).
type Cursor struct {
	CreatedAt time.Time
	RecordID  string
}

// List returns downloads newest first. One extra row beyond PageSize is
// fetched so the caller can tell whether more results exist.
func (s *Storage) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `
		SELECT
			record_id, job_id, topic, data_id,
			url, path, size_bytes, duration_ms,
			integrity, status, error, created_at
		FROM downloads
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Topic != "" {
		query += fmt.Sprintf(" AND topic = $%d", argIdx)
		args = append(args, filter.Topic)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, record_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.RecordID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, record_id DESC"

	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var records []Record
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}

	return records, nil
}
