package component

import (
	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
)

// Keys a mount context exposes.
const (
	KeyComponent     = "$component"
	KeyTemplateNodes = "$componentTemplateNodes"
	KeySlotNodes     = "$componentTemplateSlotNodes"
)

// BuildMountContext returns the context a mounted component's subtree is
// bound against: a child of parent whose $data is vm, extended with the
// component keys. parent is not modified.
func BuildMountContext(parent *binding.Context, vm any, original []*dom.Node) *binding.Context {
	return parent.CreateChildContext(vm, "", func(c *binding.Context) {
		c.Extend(KeyComponent, vm)
		c.Extend(KeyTemplateNodes, original)
		c.Extend(KeySlotNodes, ExtractSlots(original))
	})
}
