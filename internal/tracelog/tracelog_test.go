package tracelog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToStdoutWhenWriterNil(t *testing.T) {
	logger := New(slog.LevelInfo, nil)
	require.NotNil(t, logger)
}

func TestNewLogsAtOrAboveMinLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(slog.LevelWarn, buf)

	logger.Info("decoded connect")
	assert.Empty(t, buf.String())

	logger.Warn("remaining length non-canonical")
	output := buf.String()
	assert.Contains(t, output, "WRN")
	assert.Contains(t, output, "remaining length non-canonical")
}

func TestHandleFormatsLevelMessageAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(slog.LevelDebug, buf)

	logger.Info("decoded publish", "topic", "a/b", "qos", 1)
	output := buf.String()

	assert.Contains(t, output, "INF")
	assert.Contains(t, output, "decoded publish")
	assert.Contains(t, output, "topic=a/b")
	assert.Contains(t, output, "qos=1")
}

func TestColoredHandlerEnabled(t *testing.T) {
	h := &coloredHandler{minLevel: slog.LevelInfo}

	tests := []struct {
		name    string
		level   slog.Level
		enabled bool
	}{
		{"debug below info", slog.LevelDebug, false},
		{"info equals info", slog.LevelInfo, true},
		{"warn above info", slog.LevelWarn, true},
		{"error above info", slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, h.Enabled(context.Background(), tt.level))
		})
	}
}

func TestColoredHandlerWithAttrsAccumulates(t *testing.T) {
	buf := &bytes.Buffer{}
	h := &coloredHandler{writer: buf, minLevel: slog.LevelInfo}

	withOne := h.WithAttrs([]slog.Attr{slog.String("a", "1")})
	first, ok := withOne.(*coloredHandler)
	require.True(t, ok)
	assert.Len(t, first.attrs, 1)

	withTwo := first.WithAttrs([]slog.Attr{slog.String("b", "2")})
	second, ok := withTwo.(*coloredHandler)
	require.True(t, ok)
	assert.Len(t, second.attrs, 2)
	assert.Len(t, first.attrs, 1, "WithAttrs must not mutate the receiver")
}

func TestColoredHandlerWithGroupAppends(t *testing.T) {
	h := &coloredHandler{minLevel: slog.LevelInfo}

	withGroup := h.WithGroup("decode")
	grouped, ok := withGroup.(*coloredHandler)
	require.True(t, ok)
	require.Len(t, grouped.groups, 1)
	assert.Equal(t, "decode", grouped.groups[0])
}

func TestColoredHandlerColoredLevel(t *testing.T) {
	h := &coloredHandler{}

	tests := []struct {
		name     string
		level    slog.Level
		expected string
	}{
		{"debug", slog.LevelDebug, colorGray + "DBG" + colorReset},
		{"info", slog.LevelInfo, colorBlue + "INF" + colorReset},
		{"warn", slog.LevelWarn, colorYellow + "WRN" + colorReset},
		{"error", slog.LevelError, colorRed + "ERR" + colorReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.coloredLevel(tt.level))
		})
	}
}
