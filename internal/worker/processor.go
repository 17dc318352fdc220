package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wis2kit/downloader/internal/downloader"
	"github.com/wis2kit/downloader/internal/history"
	"github.com/wis2kit/downloader/internal/integrity"
	"github.com/wis2kit/downloader/internal/output"
	"github.com/wis2kit/downloader/internal/worker/domain"
)

// processJob resolves the job's output path and downloads each
// canonical link. The table lookup and the date component are computed
// once per job at processing time.
func (w *Worker) processJob(ctx context.Context, job *domain.Job) {
	links := job.CanonicalLinks()
	if len(links) == 0 {
		w.logger.Debug("Notification has no canonical links",
			slog.String("job_id", job.JobID),
			slog.String("data_id", job.DataID),
		)
		return
	}

	dir := w.table.Get(job.Topic, w.defaultDir)
	path := output.Resolve(dir, job.DataID, time.Now())

	for _, link := range links {
		w.processLink(ctx, job, link, path)
	}
}

// processLink downloads, verifies, and persists one artifact link.
// Every failure here is contained: it is logged, recorded, and the
// worker moves on to the next link or job.
func (w *Worker) processLink(ctx context.Context, job *domain.Job, link domain.Link, path string) {
	filename := downloader.Filename(link.Href)

	w.logger.Info("Attempting to download",
		slog.String("filename", filename),
		slog.String("job_id", job.JobID),
		slog.String("topic", job.Topic),
	)

	// Existence on disk is the only deduplication: a file already at
	// the output path is never re-downloaded or re-verified.
	if output.Exists(path) {
		w.logger.Info("File already downloaded, skipping",
			slog.String("filename", filename),
			slog.String("path", path),
		)
		w.record(ctx, job, link, path, domain.DownloadStatusSkipped, "", nil, "")
		return
	}

	result, err := w.downloader.Fetch(link.Href)
	if err != nil {
		w.logger.Error("Error downloading file",
			slog.String("url", link.Href),
			slog.String("job_id", job.JobID),
			slog.Any("error", err),
		)
		w.record(ctx, job, link, path, domain.DownloadStatusFailed, err.Error(), nil, "")
		return
	}

	var method, expected string
	if job.Integrity != nil {
		method = job.Integrity.Method
		expected = job.Integrity.Value
	}

	verification := integrity.Verify(result.Data, method, expected)
	switch verification.Status {
	case integrity.StatusMatch:
		w.logger.Debug("Hashes match",
			slog.String("filename", filename),
			slog.String("method", verification.Method),
		)
	case integrity.StatusMismatch:
		// The file is still persisted; a mismatch is surfaced for
		// monitoring, not treated as a download failure.
		w.logger.Warn("Hashes do not match",
			slog.String("filename", filename),
			slog.String("method", verification.Method),
			slog.String("expected", verification.Expected),
			slog.String("actual", verification.Actual),
		)
	case integrity.StatusSkipped:
		w.logger.Info("Integrity verification skipped",
			slog.String("filename", filename),
			slog.String("method", verification.Method),
			slog.String("reason", verification.Reason),
		)
	}

	if err := output.Write(path, result.Data); err != nil {
		w.logger.Error("Error saving to disk",
			slog.String("path", path),
			slog.String("job_id", job.JobID),
			slog.Any("error", err),
		)
		w.record(ctx, job, link, path, domain.DownloadStatusFailed, err.Error(), result, verification.Status)
		return
	}

	w.logger.Info("Downloaded file",
		slog.String("filename", filename),
		slog.Float64("size_kb", result.SizeKB()),
		slog.Duration("duration", result.Elapsed),
		slog.String("path", path),
	)

	w.record(ctx, job, link, path, domain.DownloadStatusCompleted, "", result, verification.Status)
}

// record writes a download outcome to the history store. Recording
// errors only reduce observability and never fail the pipeline.
func (w *Worker) record(ctx context.Context, job *domain.Job, link domain.Link, path, status, errMsg string, result *downloader.Result, verification integrity.Status) {
	rec := &history.Record{
		RecordID:  uuid.New().String(),
		JobID:     job.JobID,
		Topic:     job.Topic,
		DataID:    job.DataID,
		URL:       link.Href,
		Path:      path,
		Integrity: string(verification),
		Status:    status,
		Error:     errMsg,
		CreatedAt: time.Now(),
	}

	if result != nil {
		rec.SizeBytes = result.Size
		rec.DurationMs = result.Elapsed.Milliseconds()
	}

	if err := w.recorder.Record(ctx, rec); err != nil {
		w.logger.Warn("Failed to record download history",
			slog.String("job_id", job.JobID),
			slog.Any("error", err),
		)
	}
}
