// Package output resolves the on-disk destination of downloaded
// artifacts and persists them under a date-partitioned layout.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NormalizeDataID strips colon characters from a data identifier.
// Notification identifiers may embed colon-delimited URNs, and colons
// are illegal in path segments on some platforms.
func NormalizeDataID(dataID string) string {
	return strings.ReplaceAll(dataID, ":", "")
}

// Resolve returns the destination path for an artifact processed at t:
// {dir}/{yyyy}/{mm}/{dd}/{normalized data id}. The date is the date of
// processing, not of notification.
func Resolve(dir, dataID string, t time.Time) string {
	datePath := fmt.Sprintf("%04d/%02d/%02d", t.Year(), int(t.Month()), t.Day())
	return filepath.Join(dir, filepath.FromSlash(datePath), NormalizeDataID(dataID))
}

// Exists reports whether a regular file is already present at path.
// This existence check is the pipeline's only deduplication mechanism.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Write persists data at path, creating parent directories as needed.
// Concurrent workers may race on the same date partition; an
// already-existing directory is not an error.
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// CheckWritableDir verifies at startup that dir exists and is writable
// by creating and removing a probe file.
func CheckWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("download directory does not exist: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("download directory %q is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("download directory %q is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}
