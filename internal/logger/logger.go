package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

func New(logLevel string) *Logger {
	return NewWithWriter(os.Stdout, logLevel)
}

// NewWithWriter creates a JSON logger writing to w. Silent mode passes io.Discard.
func NewWithWriter(w io.Writer, logLevel string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(logLevel),
		AddSource: strings.EqualFold(logLevel, "debug"),
	}

	handler := slog.NewJSONHandler(w, opts)

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
	}
}

func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(fields...),
	}
}

func (l *Logger) ExportCompleted(format, path, fingerprint string, duration int64, written bool) {
	l.Info("Export completed",
		slog.String("format", format),
		slog.String("path", path),
		slog.String("fingerprint", fingerprint),
		slog.Int64("duration_ms", duration),
		slog.Bool("written", written))
}

func (l *Logger) ExportSkipped(format, path string) {
	l.Debug("Export unchanged, skipped",
		slog.String("format", format),
		slog.String("path", path))
}

func (l *Logger) BatchOperation(action string, total, success, failed int, duration int64) {
	l.Info("Batch operation completed",
		slog.String("action", action),
		slog.Int("total", total),
		slog.Int("success", success),
		slog.Int("failed", failed),
		slog.Int64("duration_ms", duration))
}

func (l *Logger) ConfigLoaded(file, definitions string, parameters, formats int) {
	l.Info("Configuration loaded",
		slog.String("config_file", file),
		slog.String("definitions", definitions),
		slog.Int("parameters", parameters),
		slog.Int("formats", formats))
}

func (l *Logger) DefinitionChanged(file, event string) {
	l.Info("Definition change detected",
		slog.String("file", file),
		slog.String("event", event))
}

func (l *Logger) WatchStart(file, debounce string) {
	l.Info("Definition watcher started",
		slog.String("file", file),
		slog.String("debounce", debounce))
}

func (l *Logger) WatchStop() {
	l.Info("Definition watcher stopped")
}

func (l *Logger) Performance(operation string, metrics map[string]interface{}) {
	args := []interface{}{
		"operation", operation,
	}

	for k, v := range metrics {
		args = append(args, k, v)
	}

	l.Debug("performance metrics", args...)
}
