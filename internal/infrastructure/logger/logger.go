// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// slogFatal sits above slog.LevelError
const slogFatal = slog.Level(12)

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// ParseLevel converts a configuration value to a Level. Unknown values map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return slogFatal
	default:
		return slog.LevelInfo
	}
}

// JSONLogger writes one JSON object per log line
type JSONLogger struct {
	handler slog.Handler
	level   Level
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(output io.Writer, level Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level.slogLevel(),
		ReplaceAttr: replaceAttr,
	})

	return &JSONLogger{
		handler: handler,
		level:   level,
	}
}

// replaceAttr renames the built-in keys and spells out the fatal level
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= slogFatal {
			a.Value = slog.StringValue(string(FatalLevel))
		}
	}
	return a
}

// WithField returns a new logger with the field added to the log context
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return &JSONLogger{
		handler: l.handler.WithAttrs([]slog.Attr{slog.Any(key, value)}),
		level:   l.level,
	}
}

// WithFields returns a new logger with the fields added to the log context
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	return &JSONLogger{
		handler: l.handler.WithAttrs(toAttrs(fields)),
		level:   l.level,
	}
}

// Debug logs a message at debug level
func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, msg, fields)
}

// Info logs a message at info level
func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, msg, fields)
}

// Warn logs a message at warn level
func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, msg, fields)
}

// Error logs a message at error level
func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(slog.LevelError, msg, fields)
}

// Fatal logs a message at fatal level and then terminates the program
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(slogFatal, msg, fields)
	os.Exit(1)
}

// log builds the record with the caller of the exported method as its source
func (l *JSONLogger) log(level slog.Level, msg string, fields map[string]interface{}) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	// Skip runtime.Callers, log and the exported method or package helper
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.AddAttrs(toAttrs(fields)...)

	_ = l.handler.Handle(ctx, record)
}

// toAttrs converts fields to attributes in key order
func toAttrs(fields map[string]interface{}) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// Default logger instances
var (
	defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Global logger functions. A JSONLogger default is called through log
// directly so the record's source is the helper's caller.

func Debug(msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(slog.LevelDebug, msg, fields)
		return
	}
	defaultLogger.Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(slog.LevelInfo, msg, fields)
		return
	}
	defaultLogger.Info(msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(slog.LevelWarn, msg, fields)
		return
	}
	defaultLogger.Warn(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(slog.LevelError, msg, fields)
		return
	}
	defaultLogger.Error(msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(slogFatal, msg, fields)
		os.Exit(1)
	}
	defaultLogger.Fatal(msg, fields)
}
