package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a cached derivation that tracks its own dependencies.
// It recomputes lazily on the next read after a dependency changes, and can
// itself be read as a dependency.
type Computed[T any] struct {
	base signalBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	valid     atomic.Bool
	computing atomic.Bool

	sources   []*signalBase
	sourcesMu sync.Mutex
}

// NewComputed creates a computed value. compute runs on first read.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
}

// Get returns the value, recomputing if needed, and subscribes the current
// listener.
func (c *Computed[T]) Get() T {
	c.base.track()
	return c.Peek()
}

// Peek returns the value without subscribing. It still recomputes if the
// cached value is stale.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// MarkDirty implements Listener. It invalidates the cache and propagates to
// subscribers.
func (c *Computed[T]) MarkDirty() {
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID implements Listener.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// GetAny implements Readable.
func (c *Computed[T]) GetAny() any { return c.Get() }

// PeekAny implements Readable.
func (c *Computed[T]) PeekAny() any { return c.Peek() }

func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

func (c *Computed[T]) recompute() {
	// Circular dependency: keep the stale value.
	if c.computing.Swap(true) {
		return
	}
	defer c.computing.Store(false)

	c.sourcesMu.Lock()
	for _, source := range c.sources {
		source.unsubscribe(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	old := setCurrentListener(c)
	newValue := c.compute()
	setCurrentListener(old)

	c.valueMu.Lock()
	c.value = newValue
	c.valueMu.Unlock()
	c.valid.Store(true)
}

var (
	_ Readable      = (*Computed[int])(nil)
	_ sourceTracker = (*Computed[int])(nil)
)
