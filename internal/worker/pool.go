package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// poolSize returns the number of download workers. The default leaves
// two cores of headroom for the ingestion and control-plane goroutines
// and is always at least 1.
func poolSize(configured int) int {
	if configured > 0 {
		return configured
	}

	n := runtime.NumCPU() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// spawnWorkerPool spawns N worker goroutines draining the job queue
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}

	w.logger.Info("Worker pool spawned successfully",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop is the main processing loop for each worker goroutine.
// A worker blocks only at Dequeue and inside the network fetch; it
// never terminates on a job error.
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Info("Worker goroutine started",
		slog.String("worker_name", workerName),
		slog.Int("worker_num", workerNum),
	)

	for {
		job, ok := w.queue.Dequeue()
		if !ok {
			w.logger.Info("Worker goroutine stopping - queue closed",
				slog.String("worker_name", workerName),
			)
			return
		}

		w.logger.Debug("Worker received job",
			slog.String("worker_name", workerName),
			slog.String("job_id", job.JobID),
			slog.String("topic", job.Topic),
		)

		w.processJob(ctx, job)
	}
}
