// Package logging builds the root zerolog logger from configuration.
package logging

import (
	"io"
	"os"
	"time"

	"alcyxob/fitness-program/internal/config"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing to stderr. An unknown level falls back to info.
func New(cfg config.LogConfig) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "fitness-program").Logger()
}
