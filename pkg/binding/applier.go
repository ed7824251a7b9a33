package binding

import (
	"log/slog"
	"sync"

	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/dom"
)

// Applier walks a node tree, attaching a handler for every binding the
// provider reports. Handlers are disposed when their node is cleaned.
type Applier struct {
	provider Provider
	handlers *Handlers
	logger   *slog.Logger
}

// Option configures an Applier.
type Option func(*Applier)

// WithLogger sets the logger handed to handlers.
func WithLogger(l *slog.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewApplier creates an applier. A nil handlers set gets the built-ins.
func NewApplier(provider Provider, handlers *Handlers, opts ...Option) *Applier {
	if handlers == nil {
		handlers = NewHandlers()
	}
	a := &Applier{
		provider: provider,
		handlers: handlers,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns the applier's binding provider.
func (a *Applier) Provider() Provider {
	return a.provider
}

// Handlers returns the applier's handler set.
func (a *Applier) Handlers() *Handlers {
	return a.handlers
}

// Logger returns the applier's logger.
func (a *Applier) Logger() *slog.Logger {
	return a.logger
}

// Apply binds root and its descendants against ctx.
func (a *Applier) Apply(ctx *Context, root *dom.Node) error {
	return a.ApplyToNode(ctx, root, nil)
}

// ApplyToNode binds node and its descendants against ctx. onComplete, if
// non-nil, runs with node once every async handler in the subtree has
// signalled completion. That may happen before ApplyToNode returns.
func (a *Applier) ApplyToNode(ctx *Context, node *dom.Node, onComplete func(*dom.Node)) error {
	w := newWaiter(func() {
		if onComplete != nil {
			onComplete(node)
		}
	})
	if err := a.applyNode(ctx, node, w); err != nil {
		return err
	}
	w.seal()
	return nil
}

// ApplyToDescendants binds the children of node, but not node itself.
// onComplete behaves as for ApplyToNode.
func (a *Applier) ApplyToDescendants(ctx *Context, node *dom.Node, onComplete func(*dom.Node)) error {
	w := newWaiter(func() {
		if onComplete != nil {
			onComplete(node)
		}
	})
	for _, child := range node.Children() {
		if err := a.applyNode(ctx, child, w); err != nil {
			return err
		}
	}
	w.seal()
	return nil
}

// ApplyToNodes binds each node in nodes and its descendants.
func (a *Applier) ApplyToNodes(ctx *Context, nodes []*dom.Node, onComplete func()) error {
	w := newWaiter(onComplete)
	for _, n := range nodes {
		if err := a.applyNode(ctx, n, w); err != nil {
			return err
		}
	}
	w.seal()
	return nil
}

type boundHandler struct {
	binding Binding
	spec    Spec
}

func (a *Applier) applyNode(ctx *Context, node *dom.Node, w *waiter) error {
	bindings, err := a.provider.Bindings(node, ctx)
	if err != nil {
		return err
	}

	controlling := ""
	bound := make([]boundHandler, 0, len(bindings))
	for _, b := range bindings {
		spec, ok := a.handlers.Get(b.Name)
		if !ok {
			return cerrors.New("E220").WithDetailf("%q on %s", b.Name, describe(node))
		}
		if spec.ControlsDescendants {
			if controlling != "" {
				return cerrors.New("E223").WithDetailf("%q and %q on %s", controlling, b.Name, describe(node))
			}
			controlling = b.Name
		}
		bound = append(bound, boundHandler{binding: b, spec: spec})
	}

	for _, bh := range bound {
		p := Params{
			Node:     node,
			Value:    bh.binding.Value,
			Context:  ctx,
			Applier:  a,
			Complete: func() {},
			Logger:   a.logger,
		}
		if bh.spec.Async {
			p.Complete = w.add()
		}
		h, err := bh.spec.New(p)
		if err != nil {
			return err
		}
		if h != nil {
			dom.OnDispose(node, h.Dispose)
		}
	}

	if controlling != "" {
		return nil
	}
	for _, child := range node.Children() {
		if err := a.applyNode(ctx, child, w); err != nil {
			return err
		}
	}
	return nil
}

func describe(node *dom.Node) string {
	if node.IsElement() {
		return "<" + node.Tag + ">"
	}
	return node.Kind.String() + " node"
}

// waiter fires done once every added completion has been called and the
// walk that created it has sealed it.
type waiter struct {
	mu      sync.Mutex
	pending int
	sealed  bool
	fired   bool
	done    func()
}

func newWaiter(done func()) *waiter {
	return &waiter{done: done}
}

func (w *waiter) add() func() {
	w.mu.Lock()
	w.pending++
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			w.pending--
			w.mu.Unlock()
			w.tryFire()
		})
	}
}

func (w *waiter) seal() {
	w.mu.Lock()
	w.sealed = true
	w.mu.Unlock()
	w.tryFire()
}

func (w *waiter) tryFire() {
	w.mu.Lock()
	if !w.sealed || w.pending > 0 || w.fired {
		w.mu.Unlock()
		return
	}
	w.fired = true
	w.mu.Unlock()

	if w.done != nil {
		w.done()
	}
}
