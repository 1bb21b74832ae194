package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logFile returns a fresh file path for a test logger to write into.
func logFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sync.log")
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	log, err := New(nil)

	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_JSONEntriesRoundTrip(t *testing.T) {
	path := logFile(t)
	log, err := New(&Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("sync pass completed",
		zap.String("sync_run_id", "run-7"),
		zap.Int("receiving_count", 3),
	)
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "sync pass completed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "run-7", entry["sync_run_id"])
	assert.EqualValues(t, 3, entry["receiving_count"])
}

func TestNew_LevelFiltersEntries(t *testing.T) {
	path := logFile(t)
	log, err := New(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	log.Debug("provider page fetched")
	log.Info("sync run started")
	log.Warn("receiving importer not configured")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "provider page fetched")
	assert.NotContains(t, string(raw), "sync run started")
	assert.Contains(t, string(raw), "receiving importer not configured")
}

func TestNew_ConsoleFormatIsPlainText(t *testing.T) {
	path := logFile(t)
	log, err := New(&Config{Level: "info", Format: "console", Output: path})
	require.NoError(t, err)

	log.Info("sync scheduler started")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(raw)
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "sync scheduler started")
	// No ANSI escape sequences
	assert.NotContains(t, line, "\x1b[")
}

func TestNew_UnopenableFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sync.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path})

	require.Error(t, err)
	assert.Nil(t, log)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := logFile(t)
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("sync run completed")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "previous run\n"))
	assert.Contains(t, string(raw), "sync run completed")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestOpenSink_StandardStreams(t *testing.T) {
	for _, output := range []string{"stdout", "STDOUT", "stderr", ""} {
		sink, err := openSink(output)

		require.NoError(t, err, output)
		assert.NotNil(t, sink, output)
	}
}

func TestNewEncoder_EmptyTimeFormatFallsBack(t *testing.T) {
	path := logFile(t)
	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("stock pass completed")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.NotEmpty(t, entry["time"])
}
