package component

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// IDSource issues generation ids. Ids must be unique and increasing across
// every binding that shares the source.
type IDSource interface {
	Next() uint64
}

// IDFunc adapts a function to IDSource.
type IDFunc func() uint64

// Next implements IDSource.
func (f IDFunc) Next() uint64 { return f() }

var generation atomic.Uint64

// NextGeneration is the process-wide IDSource used when Config.IDs is nil.
var NextGeneration IDSource = IDFunc(func() uint64 { return generation.Add(1) })

// DescendantApplier binds the children of a node. It is implemented by
// *binding.Applier.
type DescendantApplier interface {
	ApplyToDescendants(ctx *binding.Context, node *dom.Node, onComplete func(*dom.Node)) error
}

// Config is what a component Binding depends on.
type Config struct {
	// Registry resolves component names. Required.
	Registry Registry

	// Applier binds the mounted subtree. Handler defaults it to the applier
	// running the pass.
	Applier DescendantApplier

	// Params supplies natively attached parameters, consulted before a
	// descriptor's Params. Handler defaults it to the applier's provider
	// when that implements binding.ParamProvider.
	Params binding.ParamProvider

	// IDs issues generation ids. Defaults to NextGeneration.
	IDs IDSource

	// Observer receives lifecycle events. Defaults to NopObserver.
	Observer Observer

	// OnError receives errors from remounts and asynchronous resolutions.
	// Defaults to reactive.DefaultErrorHandler.
	OnError reactive.ErrorHandler

	// Logger is used when an asynchronous failure arrives after the
	// binding's reaction is gone. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.IDs == nil {
		c.IDs = NextGeneration
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Binding mounts a component into a node and keeps it mounted as the bound
// value changes. Each change starts a new generation; a resolution that
// completes after a newer generation started, or for a name that is no
// longer the latest requested, is discarded without touching the node.
type Binding struct {
	cfg      Config
	target   *dom.Node
	ctx      *binding.Context
	value    binding.Accessor
	original []*dom.Node
	complete func()

	reaction *reactive.Effect
	mat      Materializer

	viewModel   any
	mountedName string
	mountCtx    *binding.Context

	loadingID  uint64
	currentID  uint64
	latestName string

	resolving bool
	disposed  bool
}

// New attaches a component binding to target and starts the first mount.
// value is read inside a reaction; every observable it reads triggers a
// remount when it changes. complete, if non-nil, runs after the first
// mount's descendant bindings complete.
//
// An error from the first mount is returned and the binding is disposed.
// Errors from later remounts go to the reaction's error handler.
func New(cfg Config, target *dom.Node, ctx *binding.Context, value binding.Accessor, complete func()) (*Binding, error) {
	cfg = cfg.withDefaults()
	b := &Binding{
		cfg:      cfg,
		target:   target,
		ctx:      ctx,
		value:    value,
		original: target.Children(),
		complete: once(complete),
	}
	b.mat.OnRerender = b.rebind

	opts := []reactive.EffectOption{reactive.WithName("component")}
	if cfg.OnError != nil {
		opts = append(opts, reactive.WithErrorHandler(cfg.OnError))
	}
	e, err := reactive.NewEffect(b.computeApplyComponent, opts...)
	b.reaction = e
	if err != nil {
		b.Dispose()
		return nil, err
	}
	return b, nil
}

// Handler returns a binding handler that mounts components with cfg.
// Register it as "component".
func Handler(cfg Config) binding.Spec {
	return binding.Spec{
		ControlsDescendants: true,
		Async:               true,
		New: func(p binding.Params) (binding.Handler, error) {
			c := cfg
			if c.Applier == nil {
				c.Applier = p.Applier
			}
			if c.Params == nil {
				if pp, ok := p.Applier.Provider().(binding.ParamProvider); ok {
					c.Params = pp
				}
			}
			if c.Logger == nil {
				c.Logger = p.Logger
			}
			b, err := New(c, p.Node, p.Context, p.Value, p.Complete)
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// ViewModel returns the mounted view-model, or nil.
func (b *Binding) ViewModel() any {
	return b.viewModel
}

// Name returns the mounted component's name, or "".
func (b *Binding) Name() string {
	return b.mountedName
}

// Context returns the context the mounted subtree is bound against.
func (b *Binding) Context() *binding.Context {
	return b.mountCtx
}

// OriginalNodes returns the target's children as captured at construction.
func (b *Binding) OriginalNodes() []*dom.Node {
	return b.original
}

// computeApplyComponent is the reaction body.
func (b *Binding) computeApplyComponent() error {
	name, params, err := b.readValue()
	b.latestName = name
	if err != nil {
		b.cfg.Observer.Failed(name, 0, err)
		return err
	}

	id := b.cfg.IDs.Next()
	b.loadingID = id
	b.currentID = id
	b.cfg.Observer.Resolving(name, id)
	start := time.Now()

	var syncErr error
	b.resolving = true
	b.cfg.Registry.Resolve(name, func(def *Definition, loadErr error) {
		var (
			mounted bool
			err     error
		)
		reactive.Untracked(func() {
			mounted, err = b.applyDefinition(id, name, params, def, loadErr)
		})
		if err != nil {
			b.cfg.Observer.Failed(name, id, err)
			if b.resolving {
				syncErr = err
			} else {
				b.report(err)
			}
			return
		}
		if mounted {
			b.cfg.Observer.Mounted(name, id, time.Since(start))
		}
	})
	b.resolving = false
	return syncErr
}

// readValue extracts the component name and parameters from the bound
// value. A string is a bare name; a Descriptor or a map with a "name" key
// carries a name and parameters.
func (b *Binding) readValue() (string, any, error) {
	var nameVal, paramsVal any

	switch v := reactive.Unwrap(b.value()).(type) {
	case string:
		if v == "" {
			return "", nil, configurationError("empty component name")
		}
		return v, nil, nil
	case Descriptor:
		nameVal, paramsVal = v.Name, v.Params
	case *Descriptor:
		if v == nil {
			return "", nil, configurationError("nil descriptor")
		}
		nameVal, paramsVal = v.Name, v.Params
	case map[string]any:
		n, ok := v["name"]
		if !ok {
			return "", nil, configurationError("descriptor has no name field")
		}
		nameVal, paramsVal = n, v["params"]
	case nil:
		return "", nil, configurationError("binding value is nil")
	default:
		return "", nil, configurationError("unsupported binding value of type %T", v)
	}

	name, ok := reactive.Unwrap(nameVal).(string)
	if !ok || name == "" {
		return "", nil, configurationError("descriptor name %v", reactive.Peek(nameVal))
	}

	if b.cfg.Params != nil {
		if native := b.cfg.Params.NodeValues(b.target); native != nil {
			return name, native, nil
		}
	}
	return name, reactive.Unwrap(paramsVal), nil
}

// current reports whether a resolution for (id, name) may still mount.
func (b *Binding) current(id uint64, name string) bool {
	return !b.disposed &&
		id == b.loadingID &&
		b.currentID == b.loadingID &&
		name == b.latestName
}

func (b *Binding) applyDefinition(id uint64, name string, params any, def *Definition, loadErr error) (bool, error) {
	if !b.current(id, name) {
		b.cfg.Observer.Stale(name, id)
		return false, nil
	}

	b.cleanUp()

	if loadErr != nil {
		return false, unknownComponentError(name, loadErr)
	}
	if def == nil {
		return false, unknownComponentError(name, nil)
	}

	hasTemplate := present(def.Template)
	if hasTemplate {
		if err := b.mat.Materialize(name, def.Template, b.target); err != nil {
			return false, err
		}
	}

	vm, err := ResolveViewModel(def, b.target, b.original, params)
	if err != nil {
		return false, err
	}

	if !hasTemplate {
		tmpl := viewModelTemplate(vm)
		if !present(tmpl) {
			disposeViewModel(vm)
			return false, missingTemplateError(name)
		}
		if err := b.mat.Materialize(name, tmpl, b.target); err != nil {
			disposeViewModel(vm)
			return false, err
		}
	}

	b.mountCtx = BuildMountContext(b.ctx, vm, b.original)
	if a, ok := vm.(Anchorable); ok {
		a.AnchorTo(b.target)
	}

	b.viewModel = vm
	b.mountedName = name
	err = b.cfg.Applier.ApplyToDescendants(b.mountCtx, b.target, func(*dom.Node) {
		b.onBindingComplete(vm)
	})
	return err == nil, err
}

func (b *Binding) onBindingComplete(vm any) {
	if d, ok := vm.(DescendantAware); ok {
		d.DescendantsComplete(b.target)
	}
	b.complete()
}

// rebind binds content a live template produced after the first render.
func (b *Binding) rebind() {
	if b.mountCtx == nil {
		return
	}
	if err := b.cfg.Applier.ApplyToDescendants(b.mountCtx, b.target, nil); err != nil {
		b.report(err)
	}
}

// cleanUp tears down the current mount. The view-model is disposed before
// any state is cleared, and clearing currentID makes every in-flight
// resolution stale.
func (b *Binding) cleanUp() {
	vm := b.viewModel
	name := b.mountedName
	disposeViewModel(vm)

	b.viewModel = nil
	b.mountedName = ""
	b.currentID = 0
	b.mat.Release()

	if name != "" {
		b.cfg.Observer.Unmounted(name)
	}
}

func (b *Binding) report(err error) {
	if b.reaction != nil && !b.reaction.IsDisposed() {
		b.reaction.ReportError(err)
		return
	}
	b.cfg.Logger.Error("component: mount failed", "component", b.latestName, "error", err)
}

// Dispose unmounts the component and stops reacting to the bound value.
func (b *Binding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.cleanUp()
	if b.reaction != nil {
		b.reaction.Dispose()
	}
}

func disposeViewModel(vm any) {
	if d, ok := vm.(Disposable); ok {
		d.Dispose()
	}
}

func once(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	called := false
	return func() {
		if called {
			return
		}
		called = true
		fn()
	}
}

var _ binding.Handler = (*Binding)(nil)
