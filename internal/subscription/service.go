package subscription

import (
	"fmt"
	"log/slog"
)

// Transport is the subset of the broker client the control plane
// drives. Both calls are fire-and-forget from the pipeline's point of
// view; no acknowledgment is required.
type Transport interface {
	Subscribe(topic string) error
	Unsubscribe(topic string) error
}

// Service implements the add/delete/list control-plane operations on
// top of the table and the notification transport.
type Service struct {
	table      *Table
	transport  Transport
	defaultDir string
	logger     *slog.Logger
}

// NewService creates a subscription service. New topics are assigned
// defaultDir as their download directory.
func NewService(table *Table, transport Transport, defaultDir string, logger *slog.Logger) *Service {
	return &Service{
		table:      table,
		transport:  transport,
		defaultDir: defaultDir,
		logger:     logger,
	}
}

// Add subscribes to a topic. The transport subscribe call is only
// issued when the topic was actually inserted; adding a topic that is
// already present is a logged no-op. Returns the updated mapping.
func (s *Service) Add(topic string) (map[string]string, error) {
	if !s.table.Add(topic, s.defaultDir) {
		s.logger.Info("Topic already subscribed",
			slog.String("topic", topic),
		)
		return s.table.Snapshot(), nil
	}

	if err := s.transport.Subscribe(topic); err != nil {
		// Roll back so a later Add can retry the transport call.
		s.table.Remove(topic)
		return nil, fmt.Errorf("failed to subscribe to topic %q: %w", topic, err)
	}

	s.logger.Info("Subscribed to topic",
		slog.String("topic", topic),
		slog.String("directory", s.defaultDir),
	)

	return s.table.Snapshot(), nil
}

// Delete unsubscribes from a topic. The transport unsubscribe is
// attempted unconditionally; a topic absent from the table is logged
// but not an error. Delete reports whether the topic was found.
func (s *Service) Delete(topic string) (map[string]string, bool) {
	if err := s.transport.Unsubscribe(topic); err != nil {
		s.logger.Error("Failed to unsubscribe from topic",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}

	removed := s.table.Remove(topic)
	if removed {
		s.logger.Info("Unsubscribed from topic",
			slog.String("topic", topic),
		)
	} else {
		s.logger.Info("Topic not found",
			slog.String("topic", topic),
		)
	}

	return s.table.Snapshot(), removed
}

// List returns the current subscription mapping.
func (s *Service) List() map[string]string {
	return s.table.Snapshot()
}
