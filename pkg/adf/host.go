package adf

import (
	"strings"

	"github.com/open-cli-collective/mdview/pkg/md"
)

// Host builds ADF nodes. Interactivity and raw html have no ADF form and are
// dropped; stylesheets are only recorded.
type Host struct {
	Stylesheets []md.Stylesheet
}

var _ md.Host[View] = (*Host)(nil)

// Element implements md.Host.
func (h *Host) Element(el md.HTMLElement, inside View, attrs md.Attributes) View {
	switch el.Kind {
	case md.ElParagraph:
		return nodeOrNil(paragraph(inside))
	case md.ElHeading:
		return View{{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": el.Level},
			Content: normalizeInline(inside),
		}}
	case md.ElBlockQuote:
		return View{{Type: "blockquote", Content: wrapBlocks(inside)}}
	case md.ElUl:
		return View{{Type: "bulletList", Content: inside}}
	case md.ElOl:
		return View{{
			Type:    "orderedList",
			Attrs:   map[string]interface{}{"order": el.Number},
			Content: inside,
		}}
	case md.ElLi:
		return View{{Type: "listItem", Content: wrapBlocks(inside)}}
	case md.ElTable:
		return View{{
			Type:    "table",
			Attrs:   map[string]interface{}{"layout": "default"},
			Content: inside,
		}}
	case md.ElThead:
		// The head holds its cells directly; ADF wants one row of headers.
		cells := make([]*Node, 0, len(inside))
		for _, cell := range inside {
			header := *cell
			header.Type = "tableHeader"
			cells = append(cells, &header)
		}
		return View{{Type: "tableRow", Content: cells}}
	case md.ElTrow:
		return View{{Type: "tableRow", Content: inside}}
	case md.ElTcell:
		content := wrapBlocks(inside)
		if len(content) == 0 {
			content = []*Node{{Type: "paragraph", Content: []*Node{textNode("")}}}
		}
		return View{{
			Type:    "tableCell",
			Attrs:   map[string]interface{}{"colspan": 1, "rowspan": 1},
			Content: content,
		}}
	case md.ElItalics:
		return withMark(inside, &Mark{Type: "em"})
	case md.ElBold:
		return withMark(inside, &Mark{Type: "strong"})
	case md.ElStrikeThrough:
		return withMark(inside, &Mark{Type: "strike"})
	case md.ElCode:
		mark := &Mark{Type: "code"}
		if lang := languageClass(attrs.Classes); lang != "" {
			mark.Attrs = map[string]interface{}{"language": lang}
		}
		return withMark(inside, mark)
	case md.ElPre:
		return View{codeBlock(inside)}
	case md.ElSpan, md.ElDiv:
		if hasClass(attrs.Classes, "math") {
			return withMark(inside, &Mark{Type: "code"})
		}
		return inside
	default:
		return inside
	}
}

// Rule implements md.Host.
func (h *Host) Rule(md.Attributes) View {
	return View{{Type: "rule"}}
}

// LineBreak implements md.Host.
func (h *Host) LineBreak() View {
	return View{{Type: "hardBreak"}}
}

// Fragment implements md.Host.
func (h *Host) Fragment(children []View) View {
	var out View
	for _, c := range children {
		out = append(out, c...)
	}
	return out
}

// Anchor implements md.Host.
func (h *Host) Anchor(children View, href string) View {
	return withMark(children, &Mark{
		Type:  "link",
		Attrs: map[string]interface{}{"href": href},
	})
}

// Image implements md.Host. ADF media needs uploaded attachments, so images
// degrade to their alt text.
func (h *Host) Image(src, alt string) View {
	if alt == "" {
		alt = src
	}
	return View{textNode(alt)}
}

// Text implements md.Host.
func (h *Host) Text(s string) View {
	if s == "" {
		return nil
	}
	return View{textNode(s)}
}

// Empty implements md.Host.
func (h *Host) Empty() View {
	return nil
}

// Checkbox implements md.Host.
func (h *Host) Checkbox(checked bool, _ md.Attributes) View {
	if checked {
		return View{textNode("[x] ")}
	}
	return View{textNode("[ ] ")}
}

// MountStylesheet implements md.Host.
func (h *Host) MountStylesheet(link md.Stylesheet) {
	for _, s := range h.Stylesheets {
		if s.Href == link.Href {
			return
		}
	}
	h.Stylesheets = append(h.Stylesheets, link)
}

// codeBlock turns the code-marked text of a <pre> into a codeBlock node.
func codeBlock(inside View) *Node {
	node := &Node{
		Type:    "codeBlock",
		Content: []*Node{textNode(strings.TrimSuffix(plainText(inside), "\n"))},
	}
	for _, n := range inside {
		for _, m := range n.Marks {
			if lang, ok := m.Attrs["language"].(string); ok && lang != "" {
				node.Attrs = map[string]interface{}{"language": lang}
			}
		}
	}
	return node
}

func languageClass(classes []string) string {
	for _, c := range classes {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
	}
	return ""
}

func hasClass(classes []string, name string) bool {
	for _, c := range classes {
		if c == name {
			return true
		}
	}
	return false
}

func nodeOrNil(n *Node) View {
	if n == nil {
		return nil
	}
	return View{n}
}
