package dto

type ListDownloadsRequest struct {
	Topic    string `form:"topic"`
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListDownloadsResponse struct {
	Downloads  []DownloadDTO `json:"downloads"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type DownloadDTO struct {
	RecordID   string `json:"record_id"`
	JobID      string `json:"job_id"`
	Topic      string `json:"topic"`
	DataID     string `json:"data_id"`
	URL        string `json:"url"`
	Path       string `json:"path"`
	SizeBytes  int64  `json:"size_bytes"`
	DurationMs int64  `json:"duration_ms"`
	Integrity  string `json:"integrity"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
}
