package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// SlogAdapter implements the Logger interface using Go's standard slog library.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a logger writing to stdout.
func NewSlogAdapter(env string, level string) *SlogAdapter {
	return NewSlogAdapterWithWriter(os.Stdout, env, level)
}

// NewSlogAdapterWithWriter creates a logger writing to w. Development gets the
// text handler, every other environment gets JSON.
func NewSlogAdapterWithWriter(w io.Writer, env string, level string) *SlogAdapter {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &SlogAdapter{
		logger: slog.New(contextHandler{Handler: handler}),
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *SlogAdapter) Debug(ctx context.Context, msg string, args ...any) {
	s.logger.DebugContext(ctx, msg, args...)
}

func (s *SlogAdapter) Info(ctx context.Context, msg string, args ...any) {
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *SlogAdapter) Warn(ctx context.Context, msg string, args ...any) {
	s.logger.WarnContext(ctx, msg, args...)
}

func (s *SlogAdapter) Error(ctx context.Context, msg string, args ...any) {
	s.logger.ErrorContext(ctx, msg, args...)
}

// Slog exposes the underlying logger for libraries that take a *slog.Logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}
