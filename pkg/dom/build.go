package dom

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Kind: KindText, Data: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node.
func Comment(content string) *Node {
	return &Node{Kind: KindComment, Data: content}
}

// El creates an element. Arguments may be Attr, *Node, []*Node or string
// (a text child); nil values are skipped.
//
//	El("div", A("class", "card"),
//	    El("h1", "Title"),
//	    El("p", "Content"),
//	)
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			n.SetAttr(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				n.SetAttr(a.Key, a.Value)
			}
		case *Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.AppendChild(c)
				}
			}
		case string:
			n.AppendChild(Text(v))
		default:
			panic(fmt.Sprintf("dom: unsupported El argument %T", arg))
		}
	}
	return n
}

// Fragment returns its arguments as a node list, converting strings to
// text nodes.
func Fragment(args ...any) []*Node {
	holder := El("template", args...)
	out := holder.Children()
	for _, c := range out {
		c.parent = nil
	}
	holder.children = nil
	return out
}
