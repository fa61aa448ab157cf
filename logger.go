// Package viewerprefs provides default logging implementations.
package viewerprefs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel mirrors slog's levels so callers do not need to import log/slog.
type LogLevel int

// Log level constants, mirroring slog levels for internal mapping.
const (
	LogLevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LogLevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LogLevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LogLevelError LogLevel = LogLevel(slog.LevelError)
)

// ParseLogLevel maps "debug", "info", "warn" and "error" to a LogLevel.
// Unknown names map to LogLevelInfo.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is the sink for every error the Manager swallows.
// The args are alternating key-value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level LogLevel)
}

// defaultSlogLogger is an implementation of the Logger interface using the slog package.
type defaultSlogLogger struct {
	slogger  *slog.Logger
	levelVar *slog.LevelVar
}

// NewDefaultLogger returns a Logger writing JSON to os.Stderr at info level.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, false)
}

// NewLogger returns a Logger writing to w, as JSON or as slog text when text is set.
// The level starts at info and can be changed with SetLevel.
func NewLogger(w io.Writer, text bool) Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	opts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		handler = slog.NewTextHandler(w, opts)
	}
	return &defaultSlogLogger{
		slogger:  slog.New(handler),
		levelVar: levelVar,
	}
}

// Debug logs a debug-level message.
func (l *defaultSlogLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs an info-level message.
func (l *defaultSlogLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs a warning-level message.
func (l *defaultSlogLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs an error-level message.
func (l *defaultSlogLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// SetLevel changes the logging level dynamically.
func (l *defaultSlogLogger) SetLevel(level LogLevel) {
	if l.levelVar != nil {
		l.levelVar.Set(slog.Level(level))
	}
}
