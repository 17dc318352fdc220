package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonLoggerTo returns a JSON logger writing into buf at the given level.
func jsonLoggerTo(buf *bytes.Buffer, level string) *Logger {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{Logger: slog.New(handler)}
}

func TestJSONLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		log       func(l *Logger)
		wantLines int
		wantLevel string
		wantMsg   string
	}{
		{
			name:  "debug level logs debug",
			level: "debug",
			log: func(l *Logger) {
				l.Debug("debug message", slog.String("key", "value"))
			},
			wantLines: 1,
			wantLevel: "DEBUG",
			wantMsg:   "debug message",
		},
		{
			name:  "info level filters debug",
			level: "info",
			log: func(l *Logger) {
				l.Debug("dropped")
				l.Info("info message", slog.String("type", "test"))
			},
			wantLines: 1,
			wantLevel: "INFO",
			wantMsg:   "info message",
		},
		{
			name:  "warn level filters info",
			level: "warn",
			log: func(l *Logger) {
				l.Info("dropped")
				l.Warn("warn message")
			},
			wantLines: 1,
			wantLevel: "WARN",
			wantMsg:   "warn message",
		},
		{
			name:  "unknown level defaults to info",
			level: "bogus",
			log: func(l *Logger) {
				l.Debug("dropped")
				l.Info("kept")
			},
			wantLines: 1,
			wantLevel: "INFO",
			wantMsg:   "kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(jsonLoggerTo(&buf, tt.level))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, tt.wantLines)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["msg"])
			assert.Contains(t, entry, "time")
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "json to stdout",
			config: &Config{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name:   "console to stderr",
			config: &Config{Level: "debug", Format: "console", Output: "stderr", TimeFormat: time.RFC3339},
		},
		{
			name:   "empty output defaults to stdout",
			config: &Config{Level: "info", Format: "json"},
		},
		{
			name:    "unwritable log file",
			config:  &Config{Level: "info", Format: "json", Output: "/nonexistent-dir/app.log"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			require.NotNil(t, l.Logger)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("written to file", slog.String("k", "v"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "written to file", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewDefault(t *testing.T) {
	l := NewDefault()
	require.NotNil(t, l)
	require.NotNil(t, l.Logger)
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLoggerTo(&buf, "info").With(slog.String("component", "worker"))

	l.Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "worker", entry["component"])
}
