package pixaccel

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pixaccel/gpucore"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// screens holds every open Screen so a new logger reaches their devices.
var (
	screensMu sync.Mutex
	screens   = make(map[*Screen]struct{})
)

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for pixaccel and the dispatch devices of
// all open screens. By default pixaccel produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
//
// Log levels used by pixaccel:
//   - [slog.LevelDebug]: transfer plans and CPU fallbacks
//   - [slog.LevelInfo]: screen and backend lifecycle
//   - [slog.LevelWarn]: failed restores and resource release errors
//
// Example:
//
//	pixaccel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	screensMu.Lock()
	defer screensMu.Unlock()
	for s := range screens {
		propagateLogger(s.dispatch, l)
	}
}

// Logger returns the current logger used by pixaccel. Backend packages
// call this to share the same configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to d if it implements loggerSetter.
func propagateLogger(d gpucore.Dispatch, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

func registerScreen(s *Screen) {
	screensMu.Lock()
	screens[s] = struct{}{}
	screensMu.Unlock()
	propagateLogger(s.dispatch, Logger())
}

func unregisterScreen(s *Screen) {
	screensMu.Lock()
	delete(screens, s)
	screensMu.Unlock()
}
