package vdom

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/open-cli-collective/mdview/pkg/md"
)

// RenderOptions controls HTML serialization.
type RenderOptions struct {
	// SourceRanges adds data-source-start and data-source-end attributes to
	// every element that came from a markdown range.
	SourceRanges bool
}

// HTML serializes the tree below n.
func (n *Node) HTML(opts RenderOptions) (string, error) {
	var buf bytes.Buffer
	for _, hn := range n.toHTML(opts) {
		if err := html.Render(&buf, hn); err != nil {
			return "", fmt.Errorf("failed to render html: %w", err)
		}
	}
	return buf.String(), nil
}

// String renders n as HTML without source ranges.
func (n *Node) String() string {
	s, err := n.HTML(RenderOptions{})
	if err != nil {
		return ""
	}
	return s
}

// Document renders a complete html page around body, with the host's
// stylesheets in the head.
func (h *Host) Document(title string, body *Node, opts RenderOptions) (string, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := newElement("html")
	head := newElement("head")
	meta := newElement("meta")
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title != "" {
		t := newElement("title")
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}
	for _, s := range h.Stylesheets {
		head.AppendChild(stylesheetNode(s))
	}

	bodyEl := newElement("body")
	for _, c := range body.toHTML(opts) {
		bodyEl.AppendChild(c)
	}
	root.AppendChild(head)
	root.AppendChild(bodyEl)
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render html document: %w", err)
	}
	return buf.String(), nil
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func stylesheetNode(s md.Stylesheet) *html.Node {
	link := newElement("link")
	link.Attr = []html.Attribute{
		{Key: "rel", Val: s.Rel},
		{Key: "href", Val: s.Href},
	}
	if s.Integrity != "" {
		link.Attr = append(link.Attr, html.Attribute{Key: "integrity", Val: s.Integrity})
	}
	if s.CrossOrigin != "" {
		link.Attr = append(link.Attr, html.Attribute{Key: "crossorigin", Val: s.CrossOrigin})
	}
	return link
}

// toHTML converts n into html nodes. Fragments yield their children.
func (n *Node) toHTML(opts RenderOptions) []*html.Node {
	switch n.Kind {
	case TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}
	case FragmentNode:
		var out []*html.Node
		for _, c := range n.Children {
			out = append(out, c.toHTML(opts)...)
		}
		return out
	}

	el := newElement(n.Tag)
	if n.ID != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "id", Val: n.ID})
	}
	if len(n.Classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	if n.Style != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: n.Style})
	}
	for _, a := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if opts.SourceRanges && n.Range != nil {
		el.Attr = append(el.Attr,
			html.Attribute{Key: "data-source-start", Val: strconv.Itoa(n.Range.Start)},
			html.Attribute{Key: "data-source-end", Val: strconv.Itoa(n.Range.End)},
		)
	}

	if n.InnerHTML != "" {
		for _, c := range parseInner(n.InnerHTML, el) {
			el.AppendChild(c)
		}
		return []*html.Node{el}
	}
	for _, c := range n.Children {
		for _, hc := range c.toHTML(opts) {
			el.AppendChild(hc)
		}
	}
	return []*html.Node{el}
}

// parseInner parses raw html in the context of parent. Unparseable input is
// kept as text.
func parseInner(raw string, parent *html.Node) []*html.Node {
	context := &html.Node{Type: html.ElementNode, Data: parent.Data, DataAtom: parent.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: raw}}
	}
	return nodes
}
