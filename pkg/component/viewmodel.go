package component

import (
	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// ResolveViewModel produces the view-model for a mount. With a factory the
// factory's result is returned; otherwise params is the view-model.
func ResolveViewModel(def *Definition, target *dom.Node, original []*dom.Node, params any) (any, error) {
	if def.CreateViewModel == nil {
		return params, nil
	}
	vm, err := def.CreateViewModel(params, Info{Element: target, TemplateNodes: original})
	if err != nil {
		return nil, cerrors.New("E204").WithDetailf("component %q", def.Name).Wrap(err)
	}
	return vm, nil
}

// LifeCycle can be embedded in a view-model to tie effects and cleanups to
// the mount. It implements Anchorable and Disposable.
//
//	type Counter struct {
//	    component.LifeCycle
//	    Count *reactive.Signal[int]
//	}
//
//	func NewCounter(params any, info component.Info) (any, error) {
//	    c := &Counter{Count: reactive.NewSignal(0)}
//	    c.Effect(func() error { log.Println(c.Count.Get()); return nil })
//	    return c, nil
//	}
type LifeCycle struct {
	owner  *reactive.Owner
	anchor *dom.Node
}

func (l *LifeCycle) ensureOwner() *reactive.Owner {
	if l.owner == nil {
		l.owner = reactive.NewOwner(nil)
	}
	return l.owner
}

// Owner returns the owner scoping this view-model's effects.
func (l *LifeCycle) Owner() *reactive.Owner {
	return l.ensureOwner()
}

// Effect creates an effect disposed with the view-model.
func (l *LifeCycle) Effect(fn func() error, opts ...reactive.EffectOption) (*reactive.Effect, error) {
	var (
		e   *reactive.Effect
		err error
	)
	reactive.WithOwner(l.ensureOwner(), func() {
		e, err = reactive.NewEffect(fn, opts...)
	})
	return e, err
}

// OnDispose registers fn to run when the view-model is disposed.
func (l *LifeCycle) OnDispose(fn func()) {
	l.ensureOwner().OnCleanup(fn)
}

// AnchorTo implements Anchorable.
func (l *LifeCycle) AnchorTo(node *dom.Node) {
	l.anchor = node
}

// Anchor returns the node the view-model is mounted into.
func (l *LifeCycle) Anchor() *dom.Node {
	return l.anchor
}

// Dispose implements Disposable. It is idempotent.
func (l *LifeCycle) Dispose() {
	l.ensureOwner().Dispose()
	l.anchor = nil
}

// IsDisposed reports whether Dispose was called.
func (l *LifeCycle) IsDisposed() bool {
	return l.owner != nil && l.owner.IsDisposed()
}
