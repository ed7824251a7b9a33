package binding

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/compose/pkg/dom"
)

// Params is what a handler receives when it is attached to a node.
type Params struct {
	// Node is the node carrying the binding.
	Node *dom.Node

	// Value returns the binding's current value. Reads are tracked when it
	// is called from inside a reaction.
	Value Accessor

	// Context is the binding context the node is bound against.
	Context *Context

	// Applier is the applier running this pass. Handlers that control
	// descendants use it to bind the content they produce.
	Applier *Applier

	// Complete signals that an async handler has finished binding its
	// descendants. Only the first call counts. It is a no-op for
	// synchronous handlers.
	Complete func()

	// Logger is the applier's logger.
	Logger *slog.Logger
}

// Handler is a live binding instance. Dispose runs when its node is cleaned.
type Handler interface {
	Dispose()
}

// DisposeFunc adapts a function to Handler.
type DisposeFunc func()

// Dispose implements Handler.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Spec describes a binding handler.
type Spec struct {
	// New attaches the handler to p.Node. It may return a nil Handler when
	// there is nothing to dispose.
	New func(p Params) (Handler, error)

	// ControlsDescendants stops the applier from walking into the node's
	// children. At most one binding per node may set it.
	ControlsDescendants bool

	// Async makes the applier wait for p.Complete before reporting the
	// enclosing subtree as complete.
	Async bool
}

// Handlers is a named set of binding handlers.
type Handlers struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewHandlers creates a handler set containing the built-in handlers
// (text, attr).
func NewHandlers() *Handlers {
	h := &Handlers{specs: make(map[string]Spec)}
	h.Register("text", TextHandler)
	h.Register("attr", AttrHandler)
	return h
}

// Register adds or replaces the handler called name.
func (h *Handlers) Register(name string, spec Spec) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.specs[name] = spec
}

// Get returns the handler called name.
func (h *Handlers) Get(name string) (Spec, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.specs[name]
	return s, ok
}

// Names returns the registered handler names, sorted.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.specs))
	for name := range h.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
