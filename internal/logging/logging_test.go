package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("JSON output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, slog.LevelWarn, true)

		logger.Info("hidden message")
		logger.Warn("shown message", slog.String("component", "loader"))

		output := buf.String()
		assert.NotContains(t, output, "hidden message")
		assert.Contains(t, output, `"level":"WARN"`)
		assert.Contains(t, output, `"component":"loader"`)
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, slog.LevelInfo, false).Info("loaded", slog.Int("rows", 3))
		assert.Contains(t, buf.String(), "msg=loaded")
		assert.Contains(t, buf.String(), "rows=3")
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	t.Run("LogError", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, slog.LevelInfo, true)

		LogError(logger, "cache write failed", errors.New("disk full"), slog.String("path", "/tmp/x.db"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"error":"disk full"`)
		assert.Contains(t, output, `"path":"/tmp/x.db"`)
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, slog.LevelInfo, true)

		LogOperation(logger, "data_loaded", slog.Int("rows", 10), slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"data_loaded"`)
		assert.Contains(t, output, `"rows":10`)
		assert.NotContains(t, output, "duration")
	})

	t.Run("LogOperation keeps real durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, slog.LevelInfo, true)

		LogOperation(logger, "rendered", slog.Duration("duration", 2*time.Millisecond))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, slog.LevelInfo, true)

		LogHTTPRequest(logger, "GET", "/v1/view", 200, 1.5)

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"path":"/v1/view"`)
		assert.Contains(t, output, `"status":200`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "x", errors.New("y"))
			LogOperation(nil, "x")
			LogHTTPRequest(nil, "GET", "/", 200, 0)
		})
	})
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, true)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Run("terminal mode writes to the fallback file", func(t *testing.T) {
		dir := t.TempDir()
		logger, closeFn, err := Setup(Options{Level: "info", FallbackDir: dir, Terminal: true})
		require.NoError(t, err)

		logger.Info("dashboard started")
		require.NoError(t, closeFn())

		data, err := os.ReadFile(filepath.Join(dir, "revdash.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "dashboard started")
	})

	t.Run("bad level", func(t *testing.T) {
		_, _, err := Setup(Options{Level: "loud"})
		assert.Error(t, err)
	})
}
