// Package log provides application-wide logging backed by log/slog.
// Logging is disabled by default so the TUI stays quiet; it is enabled
// explicitly via -l/--log-file or Enable() in tests.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  *slog.Logger
	level   = new(slog.LevelVar)
	file    *os.File
	enabled bool
)

func init() {
	level.Set(slog.LevelDebug)
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Enable turns on logging to the given writer.
func Enable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	level.Set(slog.LevelDebug)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	enabled = true
}

// EnableFile turns on logging to the given file path.
func EnableFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	file = f
	level.Set(slog.LevelDebug)
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	enabled = true
	return nil
}

// Disable turns off logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = false
}

// IsEnabled reports whether logging is currently enabled.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetLevel sets the minimum level for emitted records.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// With returns a logger with the given attributes attached.
func With(args ...any) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With(args...)
}

func closeFileLocked() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	get().ErrorContext(ctx, msg, args...)
}
