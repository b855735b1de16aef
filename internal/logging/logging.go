// Package logging builds the application's slog.Logger on top of the host line sink.
package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"sketchassist/hal"

	"github.com/mattn/go-isatty"
)

// Format selects the slog handler.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a structured slog.Logger that writes through sink.
// FormatAuto picks text on a terminal and JSON otherwise.
func New(sink hal.Logger, level slog.Leveler, format Format) *slog.Logger {
	return NewWriter(&lineWriter{sink: sink}, level, format)
}

// NewWriter is New for a plain io.Writer such as os.Stderr.
func NewWriter(w io.Writer, level slog.Leveler, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if format == FormatAuto || format == "" {
		format = FormatJSON
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = FormatText
		}
	}

	var h slog.Handler
	switch format {
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// lineWriter adapts hal.Logger to io.Writer. slog handlers emit one record per
// Write call, terminated by a newline.
type lineWriter struct {
	sink hal.Logger
}

func (w *lineWriter) Write(p []byte) (int, error) {
	n := len(p)
	if w.sink == nil {
		return n, nil
	}
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.sink.WriteLineBytes(p)
			break
		}
		w.sink.WriteLineBytes(p[:i])
		p = p[i+1:]
	}
	return n, nil
}
