package handler

import (
	"log/slog"

	"github.com/wis2kit/downloader/internal/history"
	"github.com/wis2kit/downloader/internal/queue"
	"github.com/wis2kit/downloader/internal/subscription"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger        *slog.Logger
	Subscriptions *subscription.Service
	History       *history.Storage // nil when the history store is disabled
	Queue         *queue.Queue
}

// SubscriptionHandler handles subscription control requests
type SubscriptionHandler struct {
	logger        *slog.Logger
	subscriptions *subscription.Service
}

// NewSubscriptionHandler creates a new SubscriptionHandler instance
func NewSubscriptionHandler(deps *Dependencies) *SubscriptionHandler {
	return &SubscriptionHandler{
		logger:        deps.Logger,
		subscriptions: deps.Subscriptions,
	}
}

// DownloadHandler serves the download history
type DownloadHandler struct {
	logger  *slog.Logger
	history *history.Storage
}

// NewDownloadHandler creates a new DownloadHandler instance
func NewDownloadHandler(deps *Dependencies) *DownloadHandler {
	return &DownloadHandler{
		logger:  deps.Logger,
		history: deps.History,
	}
}
