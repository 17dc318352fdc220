package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStorage(sqlx.NewDb(db, "postgres")), mock
}

func TestStorage_Record(t *testing.T) {
	storage, mock := newMockStorage(t)

	rec := &Record{
		RecordID:   "9f4f5f36-0000-0000-0000-000000000001",
		JobID:      "9f4f5f36-0000-0000-0000-000000000002",
		Topic:      "cache/a/wis2/test",
		DataID:     "urn:x:1",
		URL:        "http://h/f.bin",
		Path:       "/data/2024/03/05/urnx1",
		SizeBytes:  2048,
		DurationMs: 120,
		Integrity:  "MATCH",
		Status:     "COMPLETED",
		CreatedAt:  time.Now(),
	}

	mock.ExpectExec(`INSERT INTO downloads`).
		WithArgs(
			rec.RecordID, rec.JobID, rec.Topic, rec.DataID,
			rec.URL, rec.Path, rec.SizeBytes, rec.DurationMs,
			rec.Integrity, rec.Status, rec.Error, rec.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, storage.Record(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_List(t *testing.T) {
	storage, mock := newMockStorage(t)

	columns := []string{
		"record_id", "job_id", "topic", "data_id",
		"url", "path", "size_bytes", "duration_ms",
		"integrity", "status", "error", "created_at",
	}

	now := time.Now()
	rows := sqlmock.NewRows(columns).
		AddRow("r2", "j2", "t", "d2", "u2", "p2", 10, 5, "SKIPPED", "COMPLETED", "", now).
		AddRow("r1", "j1", "t", "d1", "u1", "p1", 20, 7, "MATCH", "COMPLETED", "", now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT(?s).+FROM downloads`).
		WithArgs("t", 21).
		WillReturnRows(rows)

	records, err := storage.List(context.Background(), Filter{Topic: "t", PageSize: 20})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r2", records[0].RecordID)
	assert.Equal(t, "r1", records[1].RecordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListWithCursorAndStatus(t *testing.T) {
	storage, mock := newMockStorage(t)

	cursorAt := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT(?s).+FROM downloads`).
		WithArgs("FAILED", cursorAt, "r5", 11).
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}))

	records, err := storage.List(context.Background(), Filter{
		Status:   "FAILED",
		PageSize: 10,
		Cursor:   &Cursor{CreatedAt: cursorAt, RecordID: "r5"},
	})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, NopRecorder{}.Record(context.Background(), &Record{}))
}
