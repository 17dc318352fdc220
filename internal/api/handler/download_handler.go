package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wis2kit/downloader/internal/api/dto"
	"github.com/wis2kit/downloader/internal/history"
)

// List handles GET /api/v1/downloads
// Lists recorded download outcomes, newest first, with keyset pagination
func (h *DownloadHandler) List(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Download history is not enabled",
		})
		return
	}

	var req dto.ListDownloadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeDownloadCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	records, err := h.history.List(c.Request.Context(), history.Filter{
		Topic:    req.Topic,
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list downloads", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list downloads",
		})
		return
	}

	resp := dto.ListDownloadsResponse{
		Downloads: make([]dto.DownloadDTO, 0, len(records)),
	}

	// One extra row was fetched to detect whether more results exist.
	hasMore := len(records) > req.PageSize
	if hasMore {
		records = records[:req.PageSize]
	}

	for _, rec := range records {
		resp.Downloads = append(resp.Downloads, dto.DownloadDTO{
			RecordID:   rec.RecordID,
			JobID:      rec.JobID,
			Topic:      rec.Topic,
			DataID:     rec.DataID,
			URL:        rec.URL,
			Path:       rec.Path,
			SizeBytes:  rec.SizeBytes,
			DurationMs: rec.DurationMs,
			Integrity:  rec.Integrity,
			Status:     rec.Status,
			Error:      rec.Error,
			CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
		})
	}

	if hasMore {
		last := records[len(records)-1]
		resp.NextCursor = EncodeDownloadCursor(&history.Cursor{
			CreatedAt: last.CreatedAt,
			RecordID:  last.RecordID,
		})
	}

	c.JSON(http.StatusOK, resp)
}
