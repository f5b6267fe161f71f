// Package log constructs the slog loggers used across the portal. Loggers
// are built once at process start and handed to each component; there is no
// package-level default.
package log

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text-handler logger writing to stderr.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w, mainly for tests.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithModule tags a component logger with its module name.
func WithModule(logger *slog.Logger, module string) *slog.Logger {
	return logger.With(slog.String("module", module))
}
