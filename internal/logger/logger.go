// Package logger provides process logging for the lifeops CLI and MCP server.
// Warnings and errors are always written. Debug and info messages are
// written when verbose mode is enabled via the --verbose flag or when an
// explicit level is configured with Init.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	jsonOut bool
	level   *zerolog.Level
	base    = build()
)

// build creates the logger from the current state (caller must hold lock).
func build() zerolog.Logger {
	var w io.Writer = output
	if !jsonOut {
		w = zerolog.ConsoleWriter{Out: output, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
	}

	lvl := zerolog.WarnLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if level != nil {
		lvl = *level
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	jsonOut = false
	base = build()
}

// Init configures an explicit level and, when file is set, writes JSON
// lines to that file instead of stderr. The returned func closes the file.
//
// The level parameter can be one of: debug, info, warn, error. An empty
// level keeps the verbose driven default.
func Init(lvl, file string) (func(), error) {
	closer := func() {}

	var parsed *zerolog.Level
	if lvl != "" {
		l, err := zerolog.ParseLevel(lvl)
		if err != nil {
			return closer, fmt.Errorf("parse log level: %w", err)
		}
		parsed = &l
	}

	var writer io.Writer
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	mu.Lock()
	defer mu.Unlock()
	level = parsed
	if writer != nil {
		output = writer
		jsonOut = true
	}
	base = build()
	return closer, nil
}

// Reset restores the defaults: not verbose, stderr, no explicit level.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	verbose = false
	output = os.Stderr
	jsonOut = false
	level = nil
	base = build()
}

// Logger returns the underlying zerolog logger for structured fields.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug().Msgf(format, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info logs an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warn().Msgf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Error().Msgf(format, args...)
}
