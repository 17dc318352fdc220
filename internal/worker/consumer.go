package worker

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wis2kit/downloader/internal/worker/domain"
)

// setupConsumer starts consuming notifications from the broker
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	deliveries, err := w.broker.Consume(w.workerID)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Notification consumer started",
		slog.String("consumer_tag", w.workerID),
	)

	return deliveries, nil
}

// startDispatcher drains broker deliveries and turns each notification
// into a queued job.
func (w *Worker) startDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Notification dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Notification dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("Broker delivery channel closed")
				return
			}

			w.handleMessage(delivery.RoutingKey, delivery.Body)
		}
	}
}

// handleMessage is the ingestion callback. One malformed notification
// must never stop subsequent notifications from being processed.
func (w *Worker) handleMessage(topic string, payload []byte) {
	job, err := domain.ParseNotification(topic, payload)
	if err != nil {
		w.logger.Error("Failed to parse notification",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		return
	}

	w.queue.Enqueue(job)

	w.logger.Info("Message received",
		slog.String("job_id", job.JobID),
		slog.String("topic", topic),
		slog.String("data_id", job.DataID),
	)
}
