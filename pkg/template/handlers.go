package template

import (
	"github.com/vango-dev/compose/pkg/binding"
)

// TemplateHandler renders the node's original children with the binding's
// Options. With Foreach set it renders them once per item; otherwise once
// against Data, or against the node's own context when Data is nil.
var TemplateHandler = binding.Spec{
	ControlsDescendants: true,
	Async:               true,
	New: func(p binding.Params) (binding.Handler, error) {
		return newRenderer(p, false, func() Options {
			return optionsOf(p.Value())
		})
	},
}

// ForeachHandler renders the node's original children once per item:
//
//	<ul data-foreach="items"><li data-text="name"></li></ul>
//	<ul data-foreach="{ data: items, as: 'item' }"><li data-text="item.name"></li></ul>
//
// The value goes through Normalize.
var ForeachHandler = binding.Spec{
	ControlsDescendants: true,
	Async:               true,
	New: func(p binding.Params) (binding.Handler, error) {
		return newRenderer(p, true, func() Options {
			return Normalize(p.Value())
		})
	},
}

// Register adds the template and foreach handlers to h.
func Register(h *binding.Handlers) {
	h.Register("template", TemplateHandler)
	h.Register("foreach", ForeachHandler)
}
