package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger, _ := NewLogger(level, "", format, false)
	logger.AddOutput(NewWriterOutput(buf, format))
	return logger, buf
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger("warn", FormatText)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")
	logger.Errorf("visible %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] visible warn")
	assert.Contains(t, out, "[ERROR] visible error")
}

func TestLoggerFieldsSorted(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)

	logger.With(F("research_id", "42")).Info("fetched", F("status", 200), F("attempt", 1))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "fetched attempt=1 research_id=42 status=200"), line)
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatJSON)

	logger.Info("poll tick", F("research_id", "abc"))

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "poll tick", entry.Message)
	assert.Equal(t, "abc", entry.Fields["research_id"])
}

func TestLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger("info", path, FormatText, false)
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("nonsense"))
}

func TestGlobalLoggerHelpers(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)
	SetLogger(logger)
	defer SetLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			LogInfof("worker %d", i)
		}(i)
	}
	wg.Wait()
	LogError("boom", F("op", "delete"))

	out := buf.String()
	assert.Equal(t, 6, strings.Count(out, "\n"))
	assert.Contains(t, out, "[ERROR] boom op=delete")
}

func TestLoggerChildSharesSink(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatText)
	child := logger.With(F("id", "7"))

	child.Debug("hidden")
	logger.SetLevel(LevelDebug)
	child.Debug("visible", F("id", "8"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[DEBUG] visible id=8")

	require.NoError(t, logger.Close())
	child.Info("dropped after close")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Equal(t, "UNKNOWN", LogLevel(9).String())
}
