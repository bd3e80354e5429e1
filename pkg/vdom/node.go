// Package vdom is a small virtual DOM implementing md.Host. It serializes to
// HTML and simulates pointer activation for tests and tooling.
package vdom

import (
	"github.com/open-cli-collective/mdview/pkg/md"
)

// NodeKind distinguishes element, text and fragment nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	FragmentNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "fragment"
	}
}

// Attr is an html attribute besides id, class and style.
type Attr struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// Node is one virtual DOM node.
type Node struct {
	Kind      NodeKind `json:"-"`
	Tag       string   `json:"tag,omitempty"`
	Text      string   `json:"text,omitempty"`
	ID        string   `json:"id,omitempty"`
	Classes   []string `json:"classes,omitempty"`
	Style     string   `json:"style,omitempty"`
	Attrs     []Attr   `json:"attrs,omitempty"`
	InnerHTML string   `json:"innerHTML,omitempty"`
	Children  []*Node  `json:"children,omitempty"`

	// Range is the markdown the node came from; nil for nodes without a
	// click handler.
	Range   *md.SourceRange  `json:"range,omitempty"`
	OnClick *md.ClickHandler `json:"-"`
}

// Attr returns the value of the attribute named key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the node carries class name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent concatenates the text below n.
func (n *Node) TextContent() string {
	if n.Kind == TextNode {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

// Find returns the nodes below n, n included, for which match is true, in
// document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var found []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if match(cur) {
			found = append(found, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return found
}

// FindTag returns the elements below n with the given tag.
func (n *Node) FindTag(tag string) []*Node {
	return n.Find(func(c *Node) bool { return c.Kind == ElementNode && c.Tag == tag })
}

// Path returns the chain of nodes from n down to the deepest node whose
// source range contains offset. It is empty when no node covers offset.
func (n *Node) Path(offset int) []*Node {
	var best []*Node
	var walk func(cur *Node, path []*Node)
	walk = func(cur *Node, path []*Node) {
		if cur.Range != nil && cur.Range.Contains(offset) {
			path = append(path, cur)
			if len(path) > len(best) {
				best = append([]*Node(nil), path...)
			}
		}
		for _, c := range cur.Children {
			walk(c, path)
		}
	}
	walk(n, nil)
	return best
}

// At returns the deepest node whose source range contains offset.
func (n *Node) At(offset int) *Node {
	path := n.Path(offset)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}
