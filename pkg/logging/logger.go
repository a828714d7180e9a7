// Package logging provides structured logging for the resource updater using
// zerolog. Library code takes a zerolog.Logger through its options and
// defaults to Nop; the CLI builds one from Config.
//
// Example usage:
//
//	log := logging.NewLoggerFromConfig(&logging.Config{Level: "debug", Format: "console"})
//	log.Info().Str("path", "app.exe").Int("resources", 12).Msg("loaded container")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// defaultLogger is the process-wide logger used by the CLI.
	defaultLogger = zerolog.Nop()

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Default returns the default logger. It discards everything until
// SetDefault or Configure is called.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// Configure replaces the default logger with one built from cfg.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// New creates a new JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger writing to w.
func NewConsole(w io.Writer, noColor bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}
