package component

import "github.com/vango-dev/compose/pkg/dom"

// SlotAttr is the attribute naming the slot a caller-supplied node fills.
const SlotAttr = "slot"

// Slots maps slot names to the caller-supplied node that fills them.
type Slots map[string]*dom.Node

// ExtractSlots collects the element nodes in nodes that carry a non-empty
// slot attribute. When several nodes name the same slot the last one wins.
func ExtractSlots(nodes []*dom.Node) Slots {
	slots := make(Slots)
	for _, n := range nodes {
		if !n.IsElement() {
			continue
		}
		name := n.Attr(SlotAttr)
		if name == "" {
			continue
		}
		slots[name] = n
	}
	return slots
}
