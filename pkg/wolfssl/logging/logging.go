package logging

import (
	"context"
	"log/slog"
)

// Logger is what builders, contexts and sessions log through. Records carry
// the protocol method and engine name as attributes, never key material.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New adapts logger; nil means slog.Default() at the time of the call.
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return leveled{logger}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return leveled{slog.New(slog.DiscardHandler)}
}

type leveled struct {
	l *slog.Logger
}

func (v leveled) Debug(ctx context.Context, msg string, args ...any) {
	v.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (v leveled) Info(ctx context.Context, msg string, args ...any) {
	v.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (v leveled) Warn(ctx context.Context, msg string, args ...any) {
	v.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (v leveled) Error(ctx context.Context, msg string, args ...any) {
	v.l.Log(ctx, slog.LevelError, msg, args...)
}

func (v leveled) With(args ...any) Logger {
	return leveled{v.l.With(args...)}
}

// Redacted stands in for a private key or its path in a record, so the log
// shows that material was loaded without showing which.
func Redacted(key string) slog.Attr {
	return slog.String(key, "[redacted]")
}
