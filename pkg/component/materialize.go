package component

import (
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// Materializer replaces a node's children with a rendering of a template.
// It owns at most one live rendering at a time.
//
// The zero value is ready to use.
type Materializer struct {
	// OnRerender runs after a RenderFunc template re-renders its content,
	// so the caller can bind the fresh nodes. It does not run for the
	// initial render.
	OnRerender func()

	live *reactive.Effect
}

// Materialize renders src into target, replacing its children. Any previous
// live rendering is released first. name is only used in errors.
func (m *Materializer) Materialize(name string, src Template, target *dom.Node) error {
	m.Release()

	if !present(src) {
		return missingTemplateError(name)
	}

	switch t := src.(type) {
	case RenderFunc:
		return m.materializeLive(t, target)
	case HTML:
		nodes, err := dom.ParseHTML(string(t))
		if err != nil {
			return invalidTemplateError(name, err)
		}
		dom.SetChildren(target, nodes)
	case Nodes:
		dom.SetChildren(target, dom.CloneNodes(t))
	default:
		return missingTemplateError(name)
	}
	return nil
}

func (m *Materializer) materializeLive(render RenderFunc, target *dom.Node) error {
	dom.Empty(target)

	first := true
	e, err := reactive.NewEffect(func() error {
		dom.SetChildren(target, render())
		if first {
			first = false
			return nil
		}
		if m.OnRerender != nil {
			reactive.Untracked(m.OnRerender)
		}
		return nil
	}, reactive.WithName("component.render"))
	m.live = e
	return err
}

// Release stops the live rendering, if any. The rendered nodes stay.
func (m *Materializer) Release() {
	if m.live != nil {
		m.live.Dispose()
		m.live = nil
	}
}

// Live reports whether a live rendering is active.
func (m *Materializer) Live() bool {
	return m.live != nil
}
