package vdom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdview/pkg/md"
)

func render(t *testing.T, source string, props md.Props[*Node]) (*Host, *Node) {
	t.Helper()
	h := &Host{}
	root, err := md.RenderMarkdown[*Node](h, source, props)
	require.NoError(t, err)
	return h, root
}

func TestHost_FragmentsAreSpliced(t *testing.T) {
	h := &Host{}
	inner := h.Fragment([]*Node{h.Text("a"), h.Fragment([]*Node{h.Text("b")}), nil, h.Empty()})
	p := h.Element(md.El(md.ElParagraph), inner, md.Attributes{})

	require.Len(t, p.Children, 2)
	assert.Equal(t, "ab", p.TextContent())
	assert.Equal(t, "<p>ab</p>", p.String())
}

func TestHost_Elements(t *testing.T) {
	h := &Host{}
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"heading", h.Element(md.Heading(3), h.Text("T"), md.Attributes{}), "<h3>T</h3>"},
		{"ordered from one", h.Element(md.Ol(1), h.Empty(), md.Attributes{}), "<ol></ol>"},
		{"ordered from five", h.Element(md.Ol(5), h.Empty(), md.Attributes{}), `<ol start="5"></ol>`},
		{"item value", h.Element(md.Li(6), h.Text("x"), md.Attributes{}), `<li value="6">x</li>`},
		{"bullet item", h.Element(md.Li(0), h.Text("x"), md.Attributes{}), `<li>x</li>`},
		{"anchor", h.Anchor(h.Text("go"), "https://go.dev?a=1&b=2"), `<a href="https://go.dev?a=1&amp;b=2">go</a>`},
		{"image", h.Image("cat.png", `a "cat"`), `<img src="cat.png" alt="a &#34;cat&#34;"/>`},
		{"rule", h.Rule(md.Attributes{}), "<hr/>"},
		{"line break", h.LineBreak(), "<br/>"},
		{"checked box", h.Checkbox(true, md.Attributes{}), `<input type="checkbox" disabled="" checked=""/>`},
		{"escaped text", h.Element(md.El(md.ElSpan), h.Text("<b>"), md.Attributes{}), "<span>&lt;b&gt;</span>"},
		{
			"attributes",
			h.Element(md.El(md.ElDiv), h.Empty(), md.Attributes{ID: "x", Classes: []string{"a", "b"}, Style: "color: red"}),
			`<div id="x" class="a b" style="color: red"></div>`,
		},
		{
			"inner html",
			h.Element(md.El(md.ElDiv), h.Text("ignored"), md.Attributes{InnerHTML: "<em>raw</em>"}),
			"<div><em>raw</em></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestHost_TableHeadCells(t *testing.T) {
	h := &Host{}
	cells := h.Fragment([]*Node{
		h.Element(md.El(md.ElTcell), h.Text("a"), md.Attributes{}),
		h.Element(md.El(md.ElTcell), h.Text("b"), md.Attributes{}),
	})
	head := h.Element(md.El(md.ElThead), cells, md.Attributes{})
	assert.Equal(t, "<thead><tr><th>a</th><th>b</th></tr></thead>", head.String())
}

func TestHost_MountStylesheetDedupes(t *testing.T) {
	h := &Host{}
	h.MountStylesheet(md.KatexStylesheet)
	h.MountStylesheet(md.KatexStylesheet)
	h.MountStylesheet(md.Stylesheet{Rel: "stylesheet", Href: "other.css"})

	assert.Equal(t, 3, h.MountCalls)
	require.Len(t, h.Stylesheets, 2)
	assert.Equal(t, md.KatexStylesheet.Href, h.Stylesheets[0].Href)
}

func TestDocument(t *testing.T) {
	h, root := render(t, "Math $x$ and $y$.\n", md.Props[*Node]{})

	page, err := h.Document("Notes & more", root, RenderOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"/><title>Notes &amp; more</title>"))
	assert.Equal(t, 1, strings.Count(page, "<link "))
	assert.Contains(t, page, `href="`+md.KatexStylesheet.Href+`"`)
	assert.Contains(t, page, "<body><p>")
	assert.True(t, strings.HasSuffix(page, "</body></html>"))
}

func TestNode_AtAndPath(t *testing.T) {
	src := "# Title\n\nSome **bold** text.\n"
	_, root := render(t, src, md.Props[*Node]{})

	bold := strings.Index(src, "bold")
	path := root.Path(bold)
	require.Len(t, path, 3)
	assert.Equal(t, "p", path[0].Tag)
	assert.Equal(t, "strong", path[1].Tag)
	assert.Equal(t, "span", path[2].Tag)

	leaf := root.At(bold)
	require.NotNil(t, leaf)
	assert.Equal(t, "bold", src[leaf.Range.Start:leaf.Range.End])

	assert.Nil(t, root.At(len(src)+10))
	assert.Empty(t, root.Path(-1))
}

func TestNode_FindAndAttr(t *testing.T) {
	_, root := render(t, "[a](x.html) and [b](y.html)\n", md.Props[*Node]{})

	links := root.FindTag("a")
	require.Len(t, links, 2)
	href, ok := links[1].Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "y.html", href)

	_, ok = links[1].Attr("title")
	assert.False(t, ok)
}

func TestClick_Bubbles(t *testing.T) {
	src := "> quote *em*\n"
	var got []md.SourceRange
	_, root := render(t, src, md.Props[*Node]{
		OnClick: func(ev md.MarkdownMouseEvent) { got = append(got, ev.Position) },
	})

	ev := ClickAt(root, strings.Index(src, "em*"))
	require.NotNil(t, ev)
	assert.False(t, ev.DefaultPrevented)

	require.Len(t, got, 4)
	assert.Equal(t, "em", src[got[0].Start:got[0].End])
	assert.Equal(t, "*em*", src[got[1].Start:got[1].End])
	assert.Equal(t, "quote *em*", src[got[2].Start:got[2].End])
	assert.Equal(t, md.SourceRange{Start: 0, End: len(src) - 1}, got[3])
}

func TestClick_NothingAtOffset(t *testing.T) {
	_, root := render(t, "text\n", md.Props[*Node]{})
	assert.Nil(t, ClickAt(root, 100))
}

func TestClick_TaskMarkerStops(t *testing.T) {
	var got []md.SourceRange
	_, root := render(t, "- [x] done\n", md.Props[*Node]{
		OnClick: func(ev md.MarkdownMouseEvent) { got = append(got, ev.Position) },
	})

	box := root.FindTag("input")
	require.Len(t, box, 1)

	ev := Click(root, box[0])
	assert.True(t, ev.DefaultPrevented)
	assert.True(t, ev.PropagationStopped)
	assert.Equal(t, []md.SourceRange{{Start: 2, End: 5}}, got)
}

func TestComponents_Note(t *testing.T) {
	h := &Host{}
	root, err := md.RenderMarkdown[*Node](h, "<Note kind=\"tip\">\n\nHi\n\n</Note>\n\n<Note>\n\nPlain\n\n</Note>\n", md.Props[*Node]{
		Components: Components(h),
	})
	require.NoError(t, err)

	notes := root.Find(func(n *Node) bool { return n.HasClass("note") })
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"note", "note-tip"}, notes[0].Classes)
	assert.Equal(t, []string{"note"}, notes[1].Classes)
	assert.Equal(t, "Plain", notes[1].TextContent())
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "element", ElementNode.String())
	assert.Equal(t, "text", TextNode.String())
	assert.Equal(t, "fragment", FragmentNode.String())
}
