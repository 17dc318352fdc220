package worker

import (
	"context"
	"log/slog"
	"time"
)

// startQueueReporter periodically logs the queue size. It only reads
// the size and never interferes with enqueue/dequeue ordering.
func (w *Worker) startQueueReporter(ctx context.Context) {
	ticker := time.NewTicker(w.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopChan:
			return

		case <-ticker.C:
			w.logger.Info("Current queue size",
				slog.Int("queue_size", w.queue.Size()),
			)
		}
	}
}
