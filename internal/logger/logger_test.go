package logger

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run fn with stderr redirected to pipe and return what was written
// Loggers are created inside fn because they bind os.Stderr on creation
func stderrOf(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stderr = w
	func() {
		defer func() { os.Stderr = orig }()
		fn()
	}()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// Decode json log lines
func entries(t *testing.T, out string) []map[string]any {
	t.Helper()

	var result []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var entry map[string]any
		require.NoErrorf(t, json.Unmarshal(scanner.Bytes(), &entry), "not json log line: %s", scanner.Text())
		result = append(result, entry)
	}
	return result
}

func TestLogger_parseLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
		wantErr  bool
	}{
		{value: "debug", expected: slog.LevelDebug},
		{value: "INFO", expected: slog.LevelInfo},
		{value: "Warn", expected: slog.LevelWarn},
		{value: "error", expected: slog.LevelError},
		{value: "", wantErr: true},
		{value: "warning", wantErr: true},
		{value: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.value, func(t *testing.T) {
			got, err := parseLevel(tt.value)

			if tt.wantErr {
				require.ErrorContains(t, err, "unknown log level")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_New(t *testing.T) {
	t.Run("prod writes json with caller file", func(t *testing.T) {
		out := stderrOf(t, func() {
			l, err := New(EnvProduction, LevelInfo)
			require.NoError(t, err)

			l.Info("user registered", "username", "chai")
		})

		logs := entries(t, out)
		require.Len(t, logs, 1)
		assert.Equal(t, "user registered", logs[0]["msg"])
		assert.Equal(t, "INFO", logs[0]["level"])
		assert.Equal(t, "chai", logs[0]["username"])

		source, ok := logs[0]["source"].(map[string]any)
		require.True(t, ok, "source has to be added")
		assert.Equal(t, "logger_test.go", source["file"], "source points to caller, not to logger wrapper, and has no directory")
	})

	t.Run("dev writes text", func(t *testing.T) {
		out := stderrOf(t, func() {
			l, err := New(EnvDevelopment, LevelDebug)
			require.NoError(t, err)

			l.Debug("token refreshed", "account", "42")
		})

		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, `msg="token refreshed"`)
		assert.Contains(t, out, "account=42")
		assert.Contains(t, out, "source=logger_test.go:")
	})

	t.Run("fail on unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.ErrorContains(t, err, "unknown environment")
	})

	t.Run("fail on unknown level", func(t *testing.T) {
		_, err := New(EnvDevelopment, "verbose")

		require.ErrorContains(t, err, "unknown log level")
	})
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
	}{
		{LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelWarn, []string{"WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			out := stderrOf(t, func() {
				l, err := NewJSONLogger(tt.level)
				require.NoError(t, err)

				l.Debug("message")
				l.Info("message")
				l.Warn("message")
				l.Error("message")
			})

			var levels []string
			for _, entry := range entries(t, out) {
				levels = append(levels, entry["level"].(string))
			}
			assert.Equal(t, tt.expected, levels)
		})
	}
}

func TestLogger_WithAndGroup(t *testing.T) {
	out := stderrOf(t, func() {
		l, err := NewJSONLogger(LevelInfo)
		require.NoError(t, err)

		l.With("service", "account").WithGroup("request").Warn("upload failed", "id", "abc")
	})

	logs := entries(t, out)
	require.Len(t, logs, 1)
	assert.Equal(t, "account", logs[0]["service"])
	assert.Equal(t, map[string]any{"id": "abc"}, logs[0]["request"])
}

func TestLogger_NoOp(t *testing.T) {
	out := stderrOf(t, func() {
		l := NewNoOpLogger().With("key", "value")

		l.Info("nothing")
		l.Error("nothing")
	})

	require.Empty(t, out)
}
