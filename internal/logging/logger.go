// Package logging provides structured logging for ocsreport using zerolog.
//
// Components take a logger from the context rather than a global:
//
//	log := logging.FromContext(ctx)
//	log.Info().Str("title", "7-Zip").Msg("software removed from fleet")
//
// The CLI builds the root logger from configuration with NewLoggerFromConfig
// and attaches it with WithLogger; each run adds its run_id via WithRunID.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger = New(os.Stderr)

// Nop discards everything.
var Nop = zerolog.Nop()

// Default returns the process-wide fallback logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide fallback logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New creates an info-level JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger writing to w.
func NewConsole(w io.Writer, noColor bool) zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	})
}
