// Package worker runs the download pipeline: a dispatcher that turns
// broker notifications into queued jobs, and a pool of workers that
// drain the queue and download, verify, and persist artifacts.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wis2kit/downloader/internal/downloader"
	"github.com/wis2kit/downloader/internal/history"
	"github.com/wis2kit/downloader/internal/queue"
	"github.com/wis2kit/downloader/internal/subscription"
	"github.com/wis2kit/downloader/shared/broker"
)

// Config holds worker configuration
type Config struct {
	Logger              *slog.Logger
	Queue               *queue.Queue
	Table               *subscription.Table
	Broker              *broker.Client
	Recorder            history.Recorder
	DefaultDirectory    string
	Concurrency         int // 0 derives the pool size from the available cores
	FetchTimeout        time.Duration
	QueueReportInterval time.Duration
}

// Worker owns the worker pool and the ingestion dispatcher
type Worker struct {
	logger         *slog.Logger
	queue          *queue.Queue
	table          *subscription.Table
	broker         *broker.Client
	recorder       history.Recorder
	downloader     *downloader.Client
	defaultDir     string
	concurrency    int
	reportInterval time.Duration
	workerID       string
	wg             sync.WaitGroup
	stopChan       chan struct{}
}

// New creates a new worker instance
func New(cfg *Config) *Worker {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = history.NopRecorder{}
	}

	reportInterval := cfg.QueueReportInterval
	if reportInterval <= 0 {
		reportInterval = time.Minute
	}

	return &Worker{
		logger:         cfg.Logger,
		queue:          cfg.Queue,
		table:          cfg.Table,
		broker:         cfg.Broker,
		recorder:       recorder,
		downloader:     downloader.NewClient(cfg.FetchTimeout),
		defaultDir:     cfg.DefaultDirectory,
		concurrency:    poolSize(cfg.Concurrency),
		reportInterval: reportInterval,
		workerID:       uuid.New().String(),
		stopChan:       make(chan struct{}),
	}
}

// Start spawns the worker pool, the notification dispatcher, and the
// queue reporter, then blocks until the context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)

	go w.startDispatcher(ctx, deliveries)
	go w.startQueueReporter(ctx)

	w.logger.Info("Download pipeline started",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	<-ctx.Done()
	w.logger.Info("Worker context canceled, stopping...")

	return nil
}

// Stop closes the queue so workers drain remaining jobs and exit, then
// waits for the pool to finish.
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker pool...")
	close(w.stopChan)
	w.queue.Close()
	w.wg.Wait()
	w.logger.Info("Worker pool stopped")
}
