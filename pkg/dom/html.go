package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML fragment into a detached node list. The fragment
// is parsed in a <body> context, so <html>/<head> wrappers are not added.
func ParseHTML(src string) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := convert(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// MustParseHTML is like ParseHTML but panics on error. Intended for
// templates known at compile time.
func MustParseHTML(src string) []*Node {
	nodes, err := ParseHTML(src)
	if err != nil {
		panic("dom: " + err.Error())
	}
	return nodes
}

func convert(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = &Node{Kind: KindElement, Tag: h.Data}
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.SetAttr(key, a.Val)
		}
	case html.TextNode:
		return Text(h.Data)
	case html.CommentNode:
		return Comment(h.Data)
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
