// Package logging provides structured JSON logging utilities.
package logging

import (
	"log/slog"
	"os"
)

// NewLogger creates a new structured JSON logger for the application.
// When debug is true the logger emits records at debug level and below,
// otherwise info and below.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// WithComponent returns a logger with a component field for categorizing log messages.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
