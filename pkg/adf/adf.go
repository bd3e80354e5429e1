// Package adf renders markdown as Atlassian Document Format through the
// md.Host interface.
package adf

// Document represents an Atlassian Document Format document.
type Document struct {
	Type    string  `json:"type"`
	Version int     `json:"version"`
	Content []*Node `json:"content"`
}

// Node represents a node in an ADF document.
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []*Node                `json:"content,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Marks   []*Mark                `json:"marks,omitempty"`
}

// Mark represents a text mark (formatting) in ADF.
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// View is the unit the host builds: a run of sibling nodes.
type View []*Node

// NewDocument wraps top-level content into a version 1 document. Loose
// inline content is gathered into paragraphs.
func NewDocument(content View) *Document {
	doc := &Document{Type: "doc", Version: 1, Content: []*Node{}}
	doc.Content = append(doc.Content, wrapBlocks(content)...)
	return doc
}

func textNode(text string) *Node {
	return &Node{Type: "text", Text: text}
}

func isInline(n *Node) bool {
	switch n.Type {
	case "text", "hardBreak":
		return true
	}
	return false
}

// wrapBlocks gathers runs of inline nodes into paragraphs so the result is
// valid block content.
func wrapBlocks(nodes View) []*Node {
	var out []*Node
	var run []*Node
	flush := func() {
		if para := paragraph(run); para != nil {
			out = append(out, para)
		}
		run = nil
	}
	for _, n := range nodes {
		if isInline(n) {
			run = append(run, n)
			continue
		}
		flush()
		out = append(out, n)
	}
	flush()
	return out
}

// paragraph builds a paragraph from inline nodes, or nil if they carry no text.
func paragraph(inline []*Node) *Node {
	content := normalizeInline(inline)
	if len(content) == 0 {
		return nil
	}
	return &Node{Type: "paragraph", Content: content}
}

// normalizeInline turns soft breaks into spaces, merges adjacent text with
// equal marks and trims blank runs at the edges.
func normalizeInline(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.Type == "text" && n.Text == "\n" {
			n = &Node{Type: "text", Text: " ", Marks: n.Marks}
		}
		if n.Type == "text" && len(out) > 0 {
			last := out[len(out)-1]
			if last.Type == "text" && sameMarks(last.Marks, n.Marks) {
				merged := *last
				merged.Text += n.Text
				out[len(out)-1] = &merged
				continue
			}
		}
		out = append(out, n)
	}

	for len(out) > 0 && isBlank(out[0]) {
		out = out[1:]
	}
	for len(out) > 0 && isBlank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func isBlank(n *Node) bool {
	if n.Type != "text" {
		return false
	}
	for _, r := range n.Text {
		if r != ' ' && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

func sameMarks(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || !sameAttrs(a[i].Attrs, b[i].Attrs) {
			return false
		}
	}
	return true
}

func sameAttrs(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// withMark returns copies of the text nodes in nodes carrying one more mark.
func withMark(nodes View, mark *Mark) View {
	out := make(View, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != "text" {
			out = append(out, n)
			continue
		}
		marked := *n
		marked.Marks = append(copyMarks(n.Marks), mark)
		out = append(out, &marked)
	}
	return out
}

// copyMarks creates a copy of the marks slice.
func copyMarks(marks []*Mark) []*Mark {
	if marks == nil {
		return nil
	}
	result := make([]*Mark, len(marks), len(marks)+1)
	copy(result, marks)
	return result
}

// plainText concatenates the text of nodes, descending into content.
func plainText(nodes []*Node) string {
	var s string
	for _, n := range nodes {
		switch n.Type {
		case "text":
			s += n.Text
		case "hardBreak":
			s += "\n"
		default:
			s += plainText(n.Content)
		}
	}
	return s
}
