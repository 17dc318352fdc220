package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/wis2kit/downloader/internal/history"
)

func DecodeDownloadCursor(cursorStr string) (*history.Cursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.Split(string(decoded), "|")
	if len(decodedParts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &history.Cursor{
		CreatedAt: time.Unix(0, createdAt),
		RecordID:  decodedParts[1],
	}, nil
}

func EncodeDownloadCursor(cursor *history.Cursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.RecordID)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
