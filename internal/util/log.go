// Package util carries small process-wide helpers.
package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the JSON stdout logger used by every binary.
func NewLogger(level string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, level, false)
}

// NewLoggerTo builds a logger writing to w. Console mode renders human-readable
// lines for local runs. Unknown levels fall back to info.
func NewLoggerTo(w io.Writer, level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// Component tags a logger with the subsystem name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
