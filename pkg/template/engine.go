package template

import (
	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
)

// Engine renders a template for one binding context.
type Engine interface {
	RenderTemplate(tmpl []*dom.Node, ctx *binding.Context) []*dom.Node
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(tmpl []*dom.Node, ctx *binding.Context) []*dom.Node

// RenderTemplate implements Engine.
func (f EngineFunc) RenderTemplate(tmpl []*dom.Node, ctx *binding.Context) []*dom.Node {
	return f(tmpl, ctx)
}

// NativeEngine renders by deep-cloning the template. Bindings on the clones
// are applied afterwards by the template binding.
type NativeEngine struct{}

// RenderTemplate implements Engine.
func (NativeEngine) RenderTemplate(tmpl []*dom.Node, _ *binding.Context) []*dom.Node {
	return dom.CloneNodes(tmpl)
}

// Default is the engine used when Options.TemplateEngine is nil.
var Default Engine = NativeEngine{}
