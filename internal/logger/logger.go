// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// Level represents a log severity level.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// LoggerInterface is the logging contract used throughout the application.
// The *c variants accept an explicit caller skip for wrappers.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// EventFunc is called for every record, e.g. to mirror logs into a UI.
type EventFunc func(ctx context.Context, r slog.Record)

// Logger wraps slog with caller annotation and an optional event hook.
type Logger struct {
	handler slog.Handler
	events  EventFunc
}

var _ LoggerInterface = (*Logger)(nil)

// New constructs a Logger writing JSON records to w at the given level.
// The service name is attached to every record.
func New(w io.Writer, minLevel Level, service string, events EventFunc) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(minLevel),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})

	return &Logger{
		handler: h.WithAttrs([]slog.Attr{slog.String("service", service)}),
		events:  events,
	}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return New(io.Discard, LevelError, "test", nil)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, 3, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, 3, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, 3, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, 3, msg, args...)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, caller, msg, args...)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, caller, msg, args...)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, caller, msg, args...)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, slog.LevelError, caller, msg, args...)
}

func (l *Logger) write(ctx context.Context, level slog.Level, caller int, msg string, args ...any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)

	if l.events != nil {
		l.events(ctx, r)
	}

	_ = l.handler.Handle(ctx, r)
}
