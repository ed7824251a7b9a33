package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrorHandler receives errors returned by an effect after its first run.
type ErrorHandler func(err error)

// DefaultErrorHandler is used by effects created without WithErrorHandler.
// It logs at Error level; replace it at startup to route errors elsewhere.
var DefaultErrorHandler ErrorHandler = func(err error) {
	slog.Default().Error("reactive: effect failed", "error", err)
}

// Effect is a dependency-tracked computation. It runs once when created and
// re-runs synchronously whenever a signal it read during its last run
// changes. Outside a Batch, a Set on a dependency re-runs the effect before
// Set returns.
//
// The first run's error is returned to the creator. Errors from later runs,
// and errors passed to ReportError, go to the effect's ErrorHandler.
type Effect struct {
	id   uint64
	name string

	fn func() error

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner   *Owner
	onError ErrorHandler

	// running guards against re-entrant runs; pending records that a
	// dependency changed while running.
	running  bool
	pending  atomic.Bool
	disposed atomic.Bool

	runs atomic.Int64
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// WithErrorHandler routes errors from re-runs to fn.
func WithErrorHandler(fn ErrorHandler) EffectOption {
	return func(e *Effect) {
		e.onError = fn
	}
}

// WithName names the effect for logs.
func WithName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// NewEffect creates an effect owned by the current owner and runs it.
// The returned error is the first run's error; the effect stays subscribed
// to whatever it read before failing.
//
//	e, err := NewEffect(func() error {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
func NewEffect(fn func() error, opts ...EffectOption) (*Effect, error) {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.owner != nil {
		e.owner.OnCleanup(e.Dispose)
	}
	return e, e.run()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the name given with WithName.
func (e *Effect) Name() string {
	return e.name
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int64 {
	return e.runs.Load()
}

// IsDisposed reports whether Dispose was called.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

// MarkDirty implements Listener. It re-runs the effect immediately, or
// after the current run if called from inside the effect body.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running {
		e.pending.Store(true)
		return
	}
	if err := e.run(); err != nil {
		e.ReportError(err)
	}
}

// ReportError sends err to the effect's error channel. Asynchronous work
// started by the effect uses this to surface failures.
func (e *Effect) ReportError(err error) {
	if err == nil {
		return
	}
	handler := e.onError
	if handler == nil {
		handler = DefaultErrorHandler
	}
	handler(err)
}

// run executes the body, re-running while dependencies changed mid-run.
func (e *Effect) run() error {
	for {
		if e.disposed.Load() {
			return nil
		}
		e.pending.Store(false)
		err := e.runOnce()
		if err != nil || !e.pending.Load() {
			return err
		}
	}
}

func (e *Effect) runOnce() error {
	e.clearSources()

	e.running = true
	old := setCurrentListener(e)
	defer func() {
		setCurrentListener(old)
		e.running = false
	}()

	e.runs.Add(1)
	return e.fn()
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
}

// Dispose unsubscribes the effect from all sources. It is idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.clearSources()
}

var _ sourceTracker = (*Effect)(nil)
