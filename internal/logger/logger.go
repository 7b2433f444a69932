// Package logger configures the application's zerolog root logger.
//
// Environment variables:
//   - LOG_LEVEL: trace|debug|info|warn|error (default: info)
//   - LOG_FORMAT: json|console (default: json)
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the root logger for the given service name.
func New(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(getenv("LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.ToLower(getenv("LOG_FORMAT", "json")) == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
