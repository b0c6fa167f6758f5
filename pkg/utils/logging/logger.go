// Package logging provides the process logger and the context plumbing
// that scopes log output to a single intelligence run. Results are
// printed to stdout, so all logging defaults to stderr.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/m-mizutani/clog"
)

type ctxLoggerKey struct{}

var (
	defaultLogger   *slog.Logger
	defaultLoggerMu sync.RWMutex
)

func init() {
	defaultLogger = New("info", os.Stderr)
}

// New builds a console logger at the given level. Unknown level names
// fall back to info so a typo in configuration never silences a run.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(parseLevel(level)),
		clog.WithTimeFmt("15:04:05"),
		clog.WithSource(false),
		clog.WithAttrHook(clog.GoerrHook),
	)

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		Default().Warn("unknown log level, using info", "level", level)
		return slog.LevelInfo
	}
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *slog.Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// With attaches a logger to the context. Downstream code retrieves it
// through From, so attributes set once at an operation boundary appear
// on every line the operation emits.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// WithAttrs derives the context logger with extra attributes and
// attaches the result. Callers use it to tag everything under one
// account, call, or document.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return With(ctx, From(ctx).With(attrs...))
}

// From returns the context logger, or the process default when the
// context carries none.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
