// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
	logFile    io.Closer
)

// Options configures Init.
type Options struct {
	Level   string
	File    string // defaults to <dir>/sitegen.log
	Dir     string
	Console bool
}

// DefaultFileName is the log file created in the config directory.
const DefaultFileName = "sitegen.log"

// Init replaces the process logger according to opts.
func Init(opts Options) error {
	var out io.Writer
	var closer io.Closer

	if opts.Console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	} else {
		path := opts.File
		if path == "" {
			path = filepath.Join(opts.Dir, DefaultFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	SetOutput(out, opts.Level)

	loggerLock.Lock()
	logFile = closer
	loggerLock.Unlock()
	return nil
}

// SetOutput points the logger at w. Tests use it to capture events.
func SetOutput(w io.Writer, level string) {
	l := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	loggerLock.Lock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = l
	loggerLock.Unlock()
}

// Close flushes and closes the log file, if one is open.
func Close() error {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger = zerolog.Nop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// SetLevel sets the log level at runtime.
func SetLevel(levelStr string) {
	loggerLock.Lock()
	logger = logger.Level(ParseLevel(levelStr))
	loggerLock.Unlock()
}

// ParseLevel converts a level name to a zerolog.Level. Unknown names map to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	return current().Debug()
}

// Info logs an info message
func Info() *zerolog.Event {
	return current().Info()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return current().Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	return current().Error()
}

// Logger returns the underlying zerolog.Logger, e.g. for sub-loggers
// tagged with a component name.
func Logger() zerolog.Logger {
	return *current()
}

// With returns a child logger carrying the given component name.
func With(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}
