package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output.
	Level string `mapstructure:"level"`

	// Format is the output format (json, console, auto).
	Format string `mapstructure:"format"`

	// NoColor disables color output in console mode.
	NoColor bool `mapstructure:"no_color"`

	// Output overrides the destination; nil means stderr.
	Output io.Writer `mapstructure:"-"`
}

// DefaultConfig returns warnings and above, auto-detected format.
func DefaultConfig() *Config {
	return &Config{
		Level:   "warn",
		Format:  "auto",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig creates a new logger from configuration.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var logger zerolog.Logger
	switch resolveFormat(cfg.Format, out) {
	case "console":
		logger = NewConsole(out, cfg.NoColor)
	default:
		logger = New(out)
	}

	level := ParseLevel(cfg.Level)
	logger = logger.Level(level)
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel parses a log level string, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		return l
	}
	return zerolog.InfoLevel
}

func resolveFormat(format string, out io.Writer) string {
	format = strings.ToLower(format)
	if format != "auto" && format != "" {
		if format == "pretty" {
			return "console"
		}
		return format
	}
	if f, ok := out.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "console"
		}
	}
	return "json"
}
