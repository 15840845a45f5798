// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the structured logger shared by the batch
// stages: a JSON file per run at debug level plus a console handler at the
// configured level.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Reporter is the logging surface the stages depend on. *slog.Logger
// satisfies it.
type Reporter interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Or returns r, or slog.Default() when r is nil.
func Or(r Reporter) Reporter {
	if r == nil {
		return slog.Default()
	}
	return r
}

// ParseLevel maps "debug", "info", "warn", and "error" to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FileName returns the log file name for a run started at t.
func FileName(t time.Time) string {
	return "memoria-engine_" + t.Format("20060102_150405") + ".log"
}

// Setup creates dir if needed and returns a logger writing JSON records to
// a new timestamped file in dir and text records at level to console. The
// returned close function flushes and closes the file.
func Setup(dir string, level slog.Level, console io.Writer) (*slog.Logger, string, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, FileName(time.Now()))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening log file: %w", err)
	}

	h := Fanout(
		slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	)
	return slog.New(h), path, f.Close, nil
}

// Fanout returns a handler that passes each record to every handler that
// is enabled for its level.
func Fanout(handlers ...slog.Handler) slog.Handler {
	return fanout(handlers)
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
