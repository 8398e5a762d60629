package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts the standard library's structured logger to the
// Logger interface.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (sl *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	sl.l.DebugContext(ctx, msg, args...)
}

func (sl *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	sl.l.InfoContext(ctx, msg, args...)
}

func (sl *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	sl.l.WarnContext(ctx, msg, args...)
}

func (sl *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	sl.l.ErrorContext(ctx, msg, args...)
}

func (sl *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: sl.l.With(args...)}
}
