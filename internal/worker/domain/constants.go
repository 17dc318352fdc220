package domain

// Download outcome constants, recorded in the download history
const (
	DownloadStatusCompleted = "COMPLETED"
	DownloadStatusFailed    = "FAILED"
	DownloadStatusSkipped   = "SKIPPED"
)
