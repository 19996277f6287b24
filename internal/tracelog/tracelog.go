// Package tracelog provides the colored slog handler used by
// cmd/mqttwiredump and by tests that want to eyeball a decode/encode
// trace instead of asserting on it.
package tracelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/axmq/mqttwire/wire"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// New returns a *slog.Logger with colored level output at or above
// minLevel, writing to writer (os.Stdout if nil).
func New(minLevel slog.Level, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = os.Stdout
	}
	return slog.New(&coloredHandler{writer: writer, minLevel: minLevel})
}

type coloredHandler struct {
	writer   io.Writer
	minLevel slog.Level
	attrs    []slog.Attr
	groups   []string
}

func (h *coloredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *coloredHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time.Format("2006-01-02 15:04:05")
	buf := fmt.Sprintf("%s %s %s", timestamp, h.coloredLevel(r.Level), r.Message)

	for _, attr := range h.attrs {
		buf += formatAttr(attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf += formatAttr(a)
		return true
	})
	buf += "\n"

	_, err := h.writer.Write([]byte(buf))
	return err
}

// formatAttr renders one attribute. A *wire.PacketError value is
// expanded into its direction and reason code alongside the wrapped
// sentinel, since "err=decode: wire: duplicate property" on its own
// hides the one field a caller wiring this into an alert actually
// needs to branch on.
func formatAttr(a slog.Attr) string {
	if err, ok := a.Value.Any().(error); ok {
		var pktErr *wire.PacketError
		if errors.As(err, &pktErr) {
			return fmt.Sprintf(" %s=%v %s.direction=%s %s.reason=0x%02X", a.Key, pktErr.Err, a.Key, pktErr.Direction, a.Key, byte(pktErr.ReasonCode))
		}
	}
	return fmt.Sprintf(" %s=%v", a.Key, a.Value)
}

func (h *coloredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &coloredHandler{writer: h.writer, minLevel: h.minLevel, attrs: newAttrs, groups: h.groups}
}

func (h *coloredHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name
	return &coloredHandler{writer: h.writer, minLevel: h.minLevel, attrs: h.attrs, groups: newGroups}
}

func (h *coloredHandler) coloredLevel(level slog.Level) string {
	var color, levelStr string
	switch level {
	case slog.LevelDebug:
		color, levelStr = colorGray, "DBG"
	case slog.LevelInfo:
		color, levelStr = colorBlue, "INF"
	case slog.LevelWarn:
		color, levelStr = colorYellow, "WRN"
	case slog.LevelError:
		color, levelStr = colorRed, "ERR"
	default:
		color, levelStr = colorReset, level.String()
	}
	return color + levelStr + colorReset
}
