// Package history persists download outcomes for inspection through
// the control surface. It is strictly off the hot path: recording
// failures are logged by the caller and never affect the pipeline.
package history

import (
	"context"
	"time"
)

// Record is one download outcome.
type Record struct {
	RecordID   string    `db:"record_id"`
	JobID      string    `db:"job_id"`
	Topic      string    `db:"topic"`
	DataID     string    `db:"data_id"`
	URL        string    `db:"url"`
	Path       string    `db:"path"`
	SizeBytes  int64     `db:"size_bytes"`
	DurationMs int64     `db:"duration_ms"`
	Integrity  string    `db:"integrity"`
	Status     string    `db:"status"`
	Error      string    `db:"error"`
	CreatedAt  time.Time `db:"created_at"`
}

// Recorder persists download outcomes.
type Recorder interface {
	Record(ctx context.Context, rec *Record) error
}

// NopRecorder discards outcomes; used when the history store is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, rec *Record) error {
	return nil
}
