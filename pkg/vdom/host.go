package vdom

import (
	"strconv"

	"github.com/open-cli-collective/mdview/pkg/md"
)

// Host builds vdom nodes. It records mounted stylesheets once each and counts
// every mount request.
type Host struct {
	Stylesheets []md.Stylesheet
	MountCalls  int
}

var _ md.Host[*Node] = (*Host)(nil)

var elementTags = map[md.ElementKind]string{
	md.ElDiv:           "div",
	md.ElSpan:          "span",
	md.ElParagraph:     "p",
	md.ElBlockQuote:    "blockquote",
	md.ElUl:            "ul",
	md.ElOl:            "ol",
	md.ElLi:            "li",
	md.ElTable:         "table",
	md.ElThead:         "thead",
	md.ElTrow:          "tr",
	md.ElTcell:         "td",
	md.ElItalics:       "em",
	md.ElBold:          "strong",
	md.ElStrikeThrough: "del",
	md.ElPre:           "pre",
	md.ElCode:          "code",
}

func element(tag string, attrs md.Attributes, children ...*Node) *Node {
	n := &Node{
		Kind:      ElementNode,
		Tag:       tag,
		ID:        attrs.ID,
		Classes:   attrs.Classes,
		Style:     attrs.Style,
		InnerHTML: attrs.InnerHTML,
		OnClick:   attrs.OnClick,
	}
	if attrs.OnClick != nil {
		r := attrs.OnClick.Position
		n.Range = &r
	}
	n.appendChildren(children)
	return n
}

// appendChildren adds children, splicing in the contents of fragments.
func (n *Node) appendChildren(children []*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Kind == FragmentNode {
			n.appendChildren(c.Children)
			continue
		}
		n.Children = append(n.Children, c)
	}
}

// Element implements md.Host.
func (h *Host) Element(el md.HTMLElement, inside *Node, attrs md.Attributes) *Node {
	switch el.Kind {
	case md.ElHeading:
		return element("h"+strconv.Itoa(el.Level), attrs, inside)
	case md.ElOl:
		n := element("ol", attrs, inside)
		if el.Number != 1 {
			n.Attrs = append(n.Attrs, Attr{Key: "start", Val: strconv.Itoa(el.Number)})
		}
		return n
	case md.ElLi:
		n := element("li", attrs, inside)
		if el.Number > 0 {
			n.Attrs = append(n.Attrs, Attr{Key: "value", Val: strconv.Itoa(el.Number)})
		}
		return n
	case md.ElThead:
		// Header cells arrive bare; html wants them as th inside a row.
		row := element("tr", md.Attributes{}, inside)
		for _, c := range row.Children {
			if c.Tag == "td" {
				c.Tag = "th"
			}
		}
		return element("thead", attrs, row)
	}
	tag, ok := elementTags[el.Kind]
	if !ok {
		tag = "div"
	}
	return element(tag, attrs, inside)
}

// Rule implements md.Host.
func (h *Host) Rule(attrs md.Attributes) *Node {
	return element("hr", attrs)
}

// LineBreak implements md.Host.
func (h *Host) LineBreak() *Node {
	return element("br", md.Attributes{})
}

// Fragment implements md.Host.
func (h *Host) Fragment(children []*Node) *Node {
	n := &Node{Kind: FragmentNode}
	n.appendChildren(children)
	return n
}

// Anchor implements md.Host.
func (h *Host) Anchor(children *Node, href string) *Node {
	n := element("a", md.Attributes{}, children)
	n.Attrs = []Attr{{Key: "href", Val: href}}
	return n
}

// Image implements md.Host.
func (h *Host) Image(src, alt string) *Node {
	n := element("img", md.Attributes{})
	n.Attrs = []Attr{{Key: "src", Val: src}, {Key: "alt", Val: alt}}
	return n
}

// Text implements md.Host.
func (h *Host) Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Empty implements md.Host.
func (h *Host) Empty() *Node {
	return &Node{Kind: FragmentNode}
}

// Checkbox implements md.Host.
func (h *Host) Checkbox(checked bool, attrs md.Attributes) *Node {
	n := element("input", attrs)
	n.Attrs = []Attr{{Key: "type", Val: "checkbox"}, {Key: "disabled", Val: ""}}
	if checked {
		n.Attrs = append(n.Attrs, Attr{Key: "checked", Val: ""})
	}
	return n
}

// MountStylesheet implements md.Host.
func (h *Host) MountStylesheet(link md.Stylesheet) {
	h.MountCalls++
	for _, s := range h.Stylesheets {
		if s.Href == link.Href {
			return
		}
	}
	h.Stylesheets = append(h.Stylesheets, link)
}
