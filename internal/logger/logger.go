// Package logger provides leveled logging with support for debug, info, warn,
// and error levels. It keeps a small printf-style API and delegates output to
// zerolog, so the process emits structured JSON in production and
// human-readable console lines during development.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init initializes the default logger with the specified level and format.
// Level is one of debug/info/warn/error; format is "json" or "console".
// Unknown values fall back to info/json.
func Init(level string, format string) {
	var l zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = zerolog.DebugLevel
	case "info":
		l = zerolog.InfoLevel
	case "warn":
		l = zerolog.WarnLevel
	case "error":
		l = zerolog.ErrorLevel
	default:
		l = zerolog.InfoLevel
	}

	var lg zerolog.Logger
	if strings.ToLower(format) == "console" {
		lg = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		lg = zerolog.New(os.Stderr)
	}

	defaultLogger = lg.Level(l).With().Timestamp().Logger()
}

// Debug logs a message at debug level.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug().Msgf(format, args...)
}

// Info logs a message at info level.
func Info(format string, args ...interface{}) {
	defaultLogger.Info().Msgf(format, args...)
}

// Warn logs a message at warn level.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn().Msgf(format, args...)
}

// Error logs a message at error level.
func Error(format string, args ...interface{}) {
	defaultLogger.Error().Msgf(format, args...)
}

// Fatal logs a message at fatal level and exits.
func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal().Msgf(format, args...)
}
