// Package observability provides structured logging and metrics for
// calculator sessions.
//
// Logging uses log/slog. Metrics use OpenTelemetry and have a no-op
// implementation for when they are disabled.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLogger creates a logger appending to the file at path, or writing to
// stderr if path is empty. The returned closer must be called when the logger
// is no longer used.
func OpenLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return NewLogger(os.Stderr, level), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, level), f, nil
}

// EnrichLogger adds a session id to a logger.
func EnrichLogger(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("session_id", sessionID))
}

// LogSessionStart logs the start of a session.
func LogSessionStart(logger *slog.Logger, interactive bool, vars int) {
	if logger == nil {
		return
	}
	logger.Info("session starting",
		slog.Bool("interactive", interactive),
		slog.Int("variables", vars),
	)
}

// LogSessionEnd logs the end of a session.
func LogSessionEnd(logger *slog.Logger, lines int, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("session failed",
			slog.Int("lines", lines),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("session ended",
		slog.Int("lines", lines),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompute logs the outcome of computing a line.
func LogCompute(logger *slog.Logger, kind string, err error, duration time.Duration) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("kind", kind),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("cause", err.Error()))
	}
	logger.Debug("line computed", attrs...)
}

// LogCommand logs a slash command.
func LogCommand(logger *slog.Logger, name string, known bool) {
	if logger == nil {
		return
	}
	logger.Debug("command",
		slog.String("command", name),
		slog.Bool("known", known),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
