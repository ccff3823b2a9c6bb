package surface

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// discardHandler drops all records; Enabled reports false so callers skip
// formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	if os.Getenv("SURFACE_DEBUG") != "" {
		loggerPtr.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		return
	}
	loggerPtr.Store(slog.New(discardHandler{}))
}

// SetLogger configures the logger used by surface and its sub-packages. By
// default nothing is logged, unless the SURFACE_DEBUG environment variable is
// set. Pass nil to disable logging.
//
// Log levels:
//   - [slog.LevelDebug]: surface lifecycle and the cause of failed best-effort calls
//   - [slog.LevelWarn]: owned surfaces released by the garbage collector, release errors
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
