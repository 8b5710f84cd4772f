// Package logutil builds slog handlers from string-valued configuration,
// so the serve command can take --log-level and --log-format flags.
package logutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatText outputs logs in key=value text form.
	FormatText Format = "text"
)

var (
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// NewHandler creates a [slog.Handler] from level and format strings.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logutil: %w", err)
	}

	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	case FormatText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}), nil
	default:
		return nil, fmt.Errorf("logutil: %w: %q", ErrUnknownLogFormat, format)
	}
}

// ParseLevel parses a log level string into a [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}
