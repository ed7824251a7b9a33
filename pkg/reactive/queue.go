package reactive

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Dispatcher posts work onto the logical thread that owns a tree.
// Asynchronous loaders use it to deliver results back to bindings.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(fn func())

// Dispatch implements Dispatcher.
func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Immediate runs dispatched work on the calling goroutine. Only suitable
// when every caller is already on the owning thread.
var Immediate Dispatcher = DispatchFunc(func(fn func()) { fn() })

// Queue is an unbounded FIFO of work items executed on one goroutine.
// Dispatch is safe from any goroutine; Run or Drain execute the work.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	notify chan struct{}
	logger *slog.Logger
}

// NewQueue creates an empty queue. A nil logger uses slog.Default().
func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		notify: make(chan struct{}, 1),
		logger: logger,
	}
}

// Dispatch implements Dispatcher.
func (q *Queue) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Ready is signalled whenever work is dispatched.
func (q *Queue) Ready() <-chan struct{} {
	return q.notify
}

func (q *Queue) take() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn, true
}

// Drain runs queued work, including work dispatched while draining, until
// the queue is empty. Panics propagate to the caller. Returns the number of
// items executed.
func (q *Queue) Drain() int {
	n := 0
	for {
		fn, ok := q.take()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Run executes queued work until ctx is cancelled. A panicking item is
// logged and the loop continues.
func (q *Queue) Run(ctx context.Context) error {
	for {
		for {
			fn, ok := q.take()
			if !ok {
				break
			}
			q.exec(fn)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.notify:
		}
	}
}

func (q *Queue) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("reactive: queued work panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
