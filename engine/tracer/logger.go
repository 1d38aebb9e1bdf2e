// Package tracer implements the progressive GPU ray tracer: GPU-facing scene
// types, per-frame scene upload, the size-dependent resource bundle lifecycle,
// frame orchestration, and image export.
package tracer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// logger is silent by default; SetLogger replaces it for the whole package.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger routes the package's log output to l. Passing nil restores the
// silent default.
//
// Parameters:
//   - l: the logger to use for the package, or nil to silence
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

func log() *slog.Logger {
	return logger.Load()
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
