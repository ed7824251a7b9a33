package dom

// AppendChild attaches child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	Detach(child)
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore inserts child before ref. A nil or foreign ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil {
		return
	}
	Detach(child)
	idx := n.indexOf(ref)
	if idx < 0 {
		n.AppendChild(child)
		return
	}
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
}

func (n *Node) indexOf(child *Node) int {
	if child == nil {
		return -1
	}
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Detach removes node from its parent without cleaning it.
func Detach(node *Node) {
	p := node.parent
	if p == nil {
		return
	}
	if i := p.indexOf(node); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	node.parent = nil
}

// Remove detaches node and cleans it.
func Remove(node *Node) {
	Detach(node)
	Clean(node)
}

// Empty removes and cleans every child of node.
func Empty(node *Node) {
	old := node.children
	node.children = nil
	for _, c := range old {
		c.parent = nil
		Clean(c)
	}
}

// SetChildren replaces the children of node. The old children are cleaned;
// the new ones are detached from wherever they were.
func SetChildren(node *Node, children []*Node) {
	Empty(node)
	for _, c := range children {
		node.AppendChild(c)
	}
}

// SetText replaces the node's children with a single text node.
func SetText(node *Node, text string) {
	if node.Kind == KindText {
		node.Data = text
		return
	}
	SetChildren(node, []*Node{Text(text)})
}

// OnDispose registers fn to run when node is cleaned. Callbacks registered
// on an already-cleaned node run on the next Clean.
func OnDispose(node *Node, fn func()) {
	node.disposers = append(node.disposers, fn)
}

// Clean runs the dispose callbacks of node and all its descendants.
// Descendants are cleaned before their ancestors. Each callback runs once.
func Clean(node *Node) {
	if node == nil {
		return
	}
	for _, c := range node.Children() {
		Clean(c)
	}
	fns := node.disposers
	node.disposers = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
