package vdom

import "github.com/open-cli-collective/mdview/pkg/md"

// Components returns the built-in component renderers for host h.
// <Note kind="..."> becomes an aside-like div with class "note note-<kind>".
func Components(h *Host) map[string]md.ComponentRenderer[*Node] {
	return map[string]md.ComponentRenderer[*Node]{
		"Note": func(p md.ComponentProps[*Node]) *Node {
			classes := []string{"note"}
			if kind, ok := p.Attr("kind"); ok && kind != "" {
				classes = append(classes, "note-"+kind)
			}
			return h.Element(md.El(md.ElDiv), p.Children, md.Attributes{Classes: classes})
		},
	}
}
