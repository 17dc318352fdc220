// Package downloader performs the HTTP fetch of a single artifact.
// Downloads are single-attempt and best-effort: a failed fetch is
// reported to the caller and never retried here.
package downloader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client fetches artifacts over HTTP.
type Client struct {
	http *http.Client
}

// NewClient creates a download client. A zero timeout keeps the
// transport default; a stuck download then only blocks its own worker.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Result is a successfully fetched artifact held in memory.
type Result struct {
	Data    []byte
	Size    int64
	Elapsed time.Duration
}

// Fetch downloads the full response payload at rawURL. Any transport
// error or non-2xx status is a failure.
func (c *Client) Fetch(rawURL string) (*Result, error) {
	start := time.Now()

	resp, err := c.http.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}

	return &Result{
		Data:    data,
		Size:    int64(len(data)),
		Elapsed: time.Since(start),
	}, nil
}

// SizeKB returns the payload size in kilobytes for log messages.
func (r *Result) SizeKB() float64 {
	return float64(r.Size) / 1024
}

// Filename returns the base name of a URL's path, used in log messages.
func Filename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Base(u.Path)
}
