// Package logging configures the structured logger used across termhooks.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Level represents log levels.
type Level string

// Log levels.
const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format represents log output format.
type Format string

// Log formats.
const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum log level that will be output.
	Level Level `yaml:"level"`

	// Format specifies the output format (text or json).
	Format Format `yaml:"format"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  InfoLevel,
		Format: TextFormat,
	}
}

// Setup creates a logger writing to w with the given configuration and
// installs it as the slog default. Unknown levels fall back to info,
// unknown formats to text.
func Setup(cfg Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(string(cfg.Level)) {
	case string(DebugLevel):
		level = slog.LevelDebug
	case string(WarnLevel):
		level = slog.LevelWarn
	case string(ErrorLevel):
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(string(cfg.Format)) == string(JSONFormat) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
