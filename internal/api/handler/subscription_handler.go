package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// List handles GET /wis2/subscriptions/list
// Returns the current topic-to-directory mapping
func (h *SubscriptionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.subscriptions.List())
}

// Add handles GET /wis2/subscriptions/add?topic=...
// Subscribes to a new topic and returns the updated mapping
func (h *SubscriptionHandler) Add(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No topic passed",
		})
		return
	}

	h.logger.Info("Add subscription requested",
		slog.String("topic", topic),
	)

	subs, err := h.subscriptions.Add(topic)
	if err != nil {
		h.logger.Error("Failed to add subscription",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to subscribe to topic",
		})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// Delete handles GET /wis2/subscriptions/delete?topic=...
// Unsubscribes from a topic and returns the updated mapping. Deleting
// a topic that was never subscribed is reported, not an error.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No topic passed",
		})
		return
	}

	h.logger.Info("Delete subscription requested",
		slog.String("topic", topic),
	)

	subs, removed := h.subscriptions.Delete(topic)
	if !removed {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Topic not found",
			"subscriptions": subs,
		})
		return
	}

	c.JSON(http.StatusOK, subs)
}
