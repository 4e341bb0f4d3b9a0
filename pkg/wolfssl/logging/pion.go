package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	pionlogging "github.com/pion/logging"
)

// NewPionFactory returns a pion LoggerFactory whose loggers write through l.
// Each scope becomes a "scope" attribute.
func NewPionFactory(l Logger) pionlogging.LoggerFactory {
	if l == nil {
		l = New(nil)
	}
	return &pionFactory{logger: l}
}

type pionFactory struct {
	logger Logger
}

func (f *pionFactory) NewLogger(scope string) pionlogging.LeveledLogger {
	return &pionLogger{logger: f.logger.With("scope", scope)}
}

// pionLogger has no context to forward; pion's API predates context plumbing.
type pionLogger struct {
	logger Logger
}

// slog has no trace level, so pion's Trace maps to Debug.
func (p *pionLogger) Trace(msg string) { p.logger.Debug(context.Background(), msg) }
func (p *pionLogger) Tracef(format string, args ...any) {
	p.logger.Debug(context.Background(), fmt.Sprintf(format, args...))
}
func (p *pionLogger) Debug(msg string) { p.logger.Debug(context.Background(), msg) }
func (p *pionLogger) Debugf(format string, args ...any) {
	p.logger.Debug(context.Background(), fmt.Sprintf(format, args...))
}
func (p *pionLogger) Info(msg string) { p.logger.Info(context.Background(), msg) }
func (p *pionLogger) Infof(format string, args ...any) {
	p.logger.Info(context.Background(), fmt.Sprintf(format, args...))
}
func (p *pionLogger) Warn(msg string) { p.logger.Warn(context.Background(), msg) }
func (p *pionLogger) Warnf(format string, args ...any) {
	p.logger.Warn(context.Background(), fmt.Sprintf(format, args...))
}
func (p *pionLogger) Error(msg string) { p.logger.Error(context.Background(), msg) }
func (p *pionLogger) Errorf(format string, args ...any) {
	p.logger.Error(context.Background(), fmt.Sprintf(format, args...))
}

// FromPion adapts a pion LeveledLogger so applications that already route
// pion/dtls logs can receive wolfssl logs the same way. Attributes are
// appended to the message as key=value pairs.
func FromPion(l pionlogging.LeveledLogger) Logger {
	return &fromPion{logger: l}
}

type fromPion struct {
	logger pionlogging.LeveledLogger
	attrs  []any
}

func (f *fromPion) format(msg string, args []any) string {
	all := append(append([]any(nil), f.attrs...), args...)
	if len(all) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "", 0)
	r.Add(all...)
	r.Attrs(func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.String())
		return true
	})
	return b.String()
}

func (f *fromPion) Debug(_ context.Context, msg string, args ...any) {
	f.logger.Debug(f.format(msg, args))
}

func (f *fromPion) Info(_ context.Context, msg string, args ...any) {
	f.logger.Info(f.format(msg, args))
}

func (f *fromPion) Warn(_ context.Context, msg string, args ...any) {
	f.logger.Warn(f.format(msg, args))
}

func (f *fromPion) Error(_ context.Context, msg string, args ...any) {
	f.logger.Error(f.format(msg, args))
}

func (f *fromPion) With(args ...any) Logger {
	return &fromPion{logger: f.logger, attrs: append(append([]any(nil), f.attrs...), args...)}
}
