package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota + 1 // <div>, <section>, etc.
	KindText                    // Plain text node
	KindComment                 // <!-- comment -->
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Node is a mutable tree node. Element nodes carry a tag, attributes and
// children; text and comment nodes carry Data.
//
// Nodes are not safe for concurrent mutation. A tree is owned by a single
// logical thread (see reactive.Queue).
type Node struct {
	Kind Kind
	Tag  string
	Data string

	attrs    map[string]string
	parent   *Node
	children []*Node

	// disposers run when the node is cleaned.
	disposers []func()
}

// Attr is a single attribute used by the El builder.
type Attr struct {
	Key   string
	Value string
}

// A creates an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a snapshot of the node's children.
// Mutating the returned slice does not affect the tree.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Attr returns the attribute value, or "" if absent.
func (n *Node) Attr(key string) string {
	if n.attrs == nil {
		return ""
	}
	return n.attrs[key]
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(key string) bool {
	if n.attrs == nil {
		return false
	}
	_, ok := n.attrs[key]
	return ok
}

// SetAttr sets an attribute value.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

// AttrKeys returns the attribute names in insertion-independent order.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	return keys
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.children {
		if c.Kind == KindComment {
			continue
		}
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Clone returns a deep copy of the node. Parent links and dispose
// callbacks are not copied.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind: n.Kind,
		Tag:  n.Tag,
		Data: n.Data,
	}
	if len(n.attrs) > 0 {
		c.attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			c.attrs[k] = v
		}
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.Clone())
		}
	}
	return out
}
