// Package logging builds the process-wide slog logger.
//
// Records are written to stderr as JSON (or logfmt style text for local
// development) and always carry the service name and version:
//
//	{"time":"...","level":"INFO","msg":"server started","service":"swiftmove","version":"v1.0.0"}
//
// Debug level adds the source location of every record.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// FormatJSON selects slog.JSONHandler output.
	FormatJSON = "json"
	// FormatText selects slog.TextHandler output.
	FormatText = "text"
)

// New returns a logger writing to stderr and installs it as the slog default.
func New(name, version string, level slog.Level, format string) *slog.Logger {
	logger := NewWithWriter(os.Stderr, name, version, level, format)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter is New without touching the default logger.
func NewWithWriter(w io.Writer, name, version string, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", name),
		slog.String("version", version),
	)
}

// ParseLevel accepts debug, info, warn, warning and error in any case, with an
// optional +/- offset as slog.Level understands it. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
