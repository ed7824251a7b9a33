package component

import (
	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// SlotHandler projects caller-supplied content into a component template.
// Its value is a slot name. The matching node from the enclosing
// component's original children is cloned into the placeholder and bound
// against the caller's context. Without a match the placeholder keeps its
// own children, bound against the component's context.
//
//	<div data-slot="'header'"><h2>Default title</h2></div>
var SlotHandler = binding.Spec{
	ControlsDescendants: true,
	New: func(p binding.Params) (binding.Handler, error) {
		name := binding.Stringify(reactive.Peek(p.Value()))

		mount := p.Context.Owner(KeySlotNodes)
		if mount == nil {
			return nil, p.Applier.ApplyToDescendants(p.Context, p.Node, nil)
		}
		v, _ := mount.Lookup(KeySlotNodes)
		slots, _ := v.(Slots)

		src := slots[name]
		if src == nil {
			return nil, p.Applier.ApplyToDescendants(p.Context, p.Node, nil)
		}

		clone := src.Clone()
		dom.SetChildren(p.Node, []*dom.Node{clone})

		caller := mount.Parent()
		if caller == nil {
			caller = p.Context
		}
		return nil, p.Applier.ApplyToNodes(caller, []*dom.Node{clone}, nil)
	},
}
