// Package log provides structured logging for the engine using zerolog.
//
// It wraps a single global zerolog.Logger with component-scoped child
// loggers so every package logs with a consistent "component" field
// instead of reaching for the standard log package directly.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance, configured by Init.
var Logger zerolog.Logger

// Level represents a configurable log level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init initializes the global logger. Safe to call once at process start.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

func init() {
	// Sensible default so packages that log before cmd/engine calls Init
	// (e.g. in tests) don't panic on a zero-value Logger.
	Init(Config{Level: InfoLevel})
}

// WithComponent creates a child logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithListingID creates a child logger tagged with a listing id.
func WithListingID(listingID string) zerolog.Logger {
	return Logger.With().Str("listing_id", listingID).Logger()
}

// WithHostID creates a child logger tagged with a network host id.
func WithHostID(hostID string) zerolog.Logger {
	return Logger.With().Str("host_id", hostID).Logger()
}

// BenchEnabled reports whether high-resolution timeline logging is
// requested via the DUOPANE_BENCH_LOG environment variable.
func BenchEnabled() bool {
	v := os.Getenv("DUOPANE_BENCH_LOG")
	return v == "1" || v == "true"
}

// Bench logs an operation duration at debug level when bench logging is
// enabled; it is a no-op otherwise so normal operation pays no overhead.
func Bench(component, op string, start time.Time) {
	if !BenchEnabled() {
		return
	}
	WithComponent(component).Debug().
		Str("op", op).
		Int64("duration_us", time.Since(start).Microseconds()).
		Msg("bench")
}
