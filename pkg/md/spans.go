package md

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"go.abhg.dev/goldmark/wikilink"
)

// span returns the source range a node covers, syntax included. Results are
// memoized since containers derive theirs from their children.
func (f *flattener) span(n ast.Node) (SourceRange, bool) {
	if s, ok := f.spans[n]; ok {
		return s.r, s.ok
	}
	r, ok := f.computeSpan(n)
	if !ok {
		r = SourceRange{Start: f.cursor, End: f.cursor}
	}
	if r.End > len(f.src) {
		r.End = len(f.src)
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	f.spans[n] = knownSpan{r: r, ok: ok}
	return r, ok
}

// knownSpan is a memoized span. ok is false when the node's position was
// guessed from the cursor.
type knownSpan struct {
	r  SourceRange
	ok bool
}

func (f *flattener) computeSpan(n ast.Node) (SourceRange, bool) {
	switch node := n.(type) {
	case *ast.Text:
		return toRange(node.Segment), true
	case *mathNode:
		return toRange(node.Outer), true
	case *ast.Heading:
		return f.headingSpan(node)
	case *ast.FencedCodeBlock:
		return f.fencedSpan(node)
	case *ast.HTMLBlock:
		r, ok := f.linesSpan(n)
		if ok && node.HasClosure() {
			r.End = f.trimEnd(node.ClosureLine.Stop)
		}
		return r, ok
	case *ast.Paragraph, *ast.CodeBlock, *extast.TableCell:
		return f.linesSpan(n)
	case *ast.ThematicBreak:
		return f.findThematicBreak(n)
	case *ast.CodeSpan:
		return f.delimitedSpan(n, '`')
	case *ast.RawHTML:
		if node.Segments.Len() == 0 {
			return SourceRange{}, false
		}
		first, last := node.Segments.At(0), node.Segments.At(node.Segments.Len()-1)
		return SourceRange{Start: first.Start, End: last.Stop}, true
	case *ast.AutoLink:
		return f.findAutoLink(n, node)
	case *extast.TaskCheckBox:
		return f.findForward(n, []byte("["), 3)
	case *extast.FootnoteLink:
		return f.findFootnoteLink(n)
	case *ast.Emphasis:
		return f.delimitedChildren(n, node.Level, "*_")
	case *extast.Strikethrough:
		return f.strikeSpan(n)
	case *ast.Link:
		return f.linkSpan(n, false)
	case *ast.Image:
		return f.linkSpan(n, true)
	case *wikilink.Node:
		return f.wikiSpan(node)
	case *ast.ListItem:
		return f.listItemSpan(n)
	case *ast.Blockquote:
		return f.prefixedChildren(n, []byte(">"))
	case *extast.Footnote:
		return f.prefixedChildren(n, []byte("[^"))
	case *extast.TableRow, *extast.TableHeader:
		r, ok := f.childrenSpan(n)
		if ok {
			r.Start = lineStart(f.src, r.Start)
			r.End = f.trimEnd(lineEnd(f.src, r.End))
		}
		return r, ok
	case *extast.Table:
		r, ok := f.childrenSpan(n)
		if ok {
			// A header-only table still owns its delimiter row.
			if head := n.FirstChild(); head != nil {
				hr, _ := f.span(head)
				if delim := f.trimEnd(lineEnd(f.src, lineEnd(f.src, hr.End))); delim > r.End {
					r.End = delim
				}
			}
		}
		return r, ok
	}
	return f.childrenSpan(n)
}

// trimEnd backs pos off any trailing line ending.
func (f *flattener) trimEnd(pos int) int {
	if pos > len(f.src) {
		pos = len(f.src)
	}
	for pos > 0 && (f.src[pos-1] == '\n' || f.src[pos-1] == '\r') {
		pos--
	}
	return pos
}

func (f *flattener) linesSpan(n ast.Node) (SourceRange, bool) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return SourceRange{}, false
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	end := f.trimEnd(last.Stop)
	if end < first.Start {
		end = first.Start
	}
	return SourceRange{Start: first.Start, End: end}, true
}

func (f *flattener) childrenSpan(n ast.Node) (SourceRange, bool) {
	var r SourceRange
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cr, ok := f.span(c)
		if !ok {
			continue
		}
		if !found {
			r = cr
			found = true
			continue
		}
		if cr.Start < r.Start {
			r.Start = cr.Start
		}
		if cr.End > r.End {
			r.End = cr.End
		}
	}
	return r, found
}

func (f *flattener) headingSpan(node *ast.Heading) (SourceRange, bool) {
	r, ok := f.linesSpan(node)
	if !ok {
		// "#" alone: the heading is the rest of the line holding the marker.
		from := f.origin(node)
		idx := bytes.IndexByte(f.src[from:], '#')
		if idx < 0 {
			return SourceRange{}, false
		}
		start := from + idx
		return SourceRange{Start: start, End: f.trimEnd(lineEnd(f.src, start))}, true
	}

	ls := lineStart(f.src, r.Start)
	if p := bytes.IndexByte(f.src[ls:r.Start], '#'); p >= 0 {
		// ATX: start at the opening hashes and keep any closing sequence.
		r.Start = ls + p
		r.End = f.trimEnd(lineEnd(f.src, r.End))
		return r, true
	}
	// Setext: the underline is the following line.
	r.End = f.trimEnd(lineEnd(f.src, lineEnd(f.src, r.End)))
	return r, true
}

func (f *flattener) fencedSpan(node *ast.FencedCodeBlock) (SourceRange, bool) {
	var start int
	if node.Info != nil {
		start = lineStart(f.src, node.Info.Segment.Start)
	} else if node.Lines().Len() > 0 {
		first := node.Lines().At(0).Start
		start = lineStart(f.src, lineStart(f.src, first)-1)
	} else {
		start = lineStart(f.src, f.origin(node))
	}
	start = f.skipIndent(start)

	fence := byte('`')
	if start < len(f.src) && f.src[start] == '~' {
		fence = '~'
	}

	contentEnd := lineEnd(f.src, start)
	if node.Lines().Len() > 0 {
		contentEnd = node.Lines().At(node.Lines().Len() - 1).Stop
	}
	if contentEnd < len(f.src) {
		closeStart := f.skipIndent(lineStart(f.src, contentEnd))
		if closeStart < contentEnd {
			closeStart = f.skipIndent(contentEnd)
		}
		if bytes.HasPrefix(f.src[closeStart:], []byte{fence, fence, fence}) {
			return SourceRange{Start: start, End: f.trimEnd(lineEnd(f.src, closeStart))}, true
		}
	}
	return SourceRange{Start: start, End: f.trimEnd(contentEnd)}, true
}

// skipIndent advances pos over spaces, tabs and blockquote markers.
func (f *flattener) skipIndent(pos int) int {
	for pos < len(f.src) {
		switch f.src[pos] {
		case ' ', '\t', '>':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func (f *flattener) findThematicBreak(n ast.Node) (SourceRange, bool) {
	from := f.origin(n)
	pos := lineStart(f.src, from)
	if pos < from {
		pos = lineEnd(f.src, from)
	}
	for pos < len(f.src) {
		end := f.trimEnd(lineEnd(f.src, pos))
		// The break may follow list or quote markers on the same line.
		for k := pos; k < end; k++ {
			if bytes.IndexByte([]byte("-*_"), f.src[k]) >= 0 && isThematicBreak(f.src[k:end]) {
				return SourceRange{Start: k, End: end}, true
			}
		}
		pos = lineEnd(f.src, pos)
	}
	return SourceRange{}, false
}

func isThematicBreak(line []byte) bool {
	var marker byte
	count := 0
	for _, c := range line {
		switch c {
		case ' ', '\t':
			continue
		case '-', '*', '_':
			if marker != 0 && c != marker {
				return false
			}
			marker = c
			count++
		default:
			return false
		}
	}
	return count >= 3
}

// delimitedSpan widens a node's children to the run of delim bytes around
// them, taking in the single padding space a code span may strip.
func (f *flattener) delimitedSpan(n ast.Node, delim byte) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	if !ok {
		return f.findForward(n, []byte{delim, delim}, 2)
	}
	if r.Start > 0 && f.src[r.Start-1] == ' ' && r.Start > 1 && f.src[r.Start-2] == delim {
		r.Start--
	}
	for r.Start > 0 && f.src[r.Start-1] == delim {
		r.Start--
	}
	if r.End < len(f.src)-1 && f.src[r.End] == ' ' && f.src[r.End+1] == delim {
		r.End++
	}
	for r.End < len(f.src) && f.src[r.End] == delim {
		r.End++
	}
	return r, true
}

// delimitedChildren widens a node's children by exactly count delimiters.
func (f *flattener) delimitedChildren(n ast.Node, count int, delims string) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	if !ok {
		return r, false
	}
	for i := 0; i < count && r.Start > 0 && bytes.IndexByte([]byte(delims), f.src[r.Start-1]) >= 0; i++ {
		r.Start--
	}
	for i := 0; i < count && r.End < len(f.src) && bytes.IndexByte([]byte(delims), f.src[r.End]) >= 0; i++ {
		r.End++
	}
	return r, true
}

func (f *flattener) strikeSpan(n ast.Node) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	if !ok {
		return r, false
	}
	count := 0
	for i := r.Start - 1; i >= 0 && f.src[i] == '~' && count < 2; i-- {
		count++
	}
	return f.delimitedChildren(n, count, "~")
}

// origin is the earliest offset a node without position information can
// start at: the end of its previous sibling, or the first line of the
// enclosing block.
func (f *flattener) origin(n ast.Node) int {
	pos := f.cursor
	if a := f.anchor(n); a > pos {
		pos = a
	}
	return min(pos, len(f.src))
}

func (f *flattener) anchor(n ast.Node) int {
	if prev := n.PreviousSibling(); prev != nil {
		if r, ok := f.span(prev); ok {
			return r.End
		}
	}
	parent := n.Parent()
	if parent == nil {
		return 0
	}
	if parent.Type() == ast.TypeBlock && parent.Lines().Len() > 0 {
		return parent.Lines().At(0).Start
	}
	return f.anchor(parent)
}

// findForward locates needle at or after the origin of n. The range spans
// width bytes from the match.
func (f *flattener) findForward(n ast.Node, needle []byte, width int) (SourceRange, bool) {
	from := f.origin(n)
	idx := bytes.Index(f.src[from:], needle)
	if idx < 0 {
		return SourceRange{}, false
	}
	start := from + idx
	return SourceRange{Start: start, End: min(start+width, len(f.src))}, true
}

func (f *flattener) findAutoLink(n ast.Node, node *ast.AutoLink) (SourceRange, bool) {
	label := node.Label(f.src)
	from := f.origin(n)
	idx := bytes.Index(f.src[from:], label)
	if idx < 0 {
		return SourceRange{}, false
	}
	r := SourceRange{Start: from + idx, End: from + idx + len(label)}
	if r.Start > 0 && f.src[r.Start-1] == '<' && r.End < len(f.src) && f.src[r.End] == '>' {
		r.Start--
		r.End++
	}
	return r, true
}

// autoLinkLabelRange is the label inside the angle brackets, if any.
func (f *flattener) autoLinkLabelRange(r SourceRange, node *ast.AutoLink) SourceRange {
	label := len(node.Label(f.src))
	if r.Len() == label+2 && f.src[r.Start] == '<' {
		return SourceRange{Start: r.Start + 1, End: r.End - 1}
	}
	return r
}

func (f *flattener) findFootnoteLink(n ast.Node) (SourceRange, bool) {
	from := f.origin(n)
	idx := bytes.Index(f.src[from:], []byte("[^"))
	if idx < 0 {
		return SourceRange{}, false
	}
	start := from + idx
	end := bytes.IndexByte(f.src[start:], ']')
	if end < 0 {
		return SourceRange{}, false
	}
	return SourceRange{Start: start, End: start + end + 1}, true
}

func (f *flattener) linkSpan(n ast.Node, image bool) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	var open, close int
	if ok {
		open = r.Start - 1
		for open >= 0 && f.src[open] != '[' {
			open--
		}
		close = r.End
		for close < len(f.src) && f.src[close] != ']' {
			close++
		}
	} else {
		needle := []byte("[]")
		if image {
			needle = []byte("![]")
		}
		from := f.origin(n)
		idx := bytes.Index(f.src[from:], needle)
		if idx < 0 {
			return SourceRange{}, false
		}
		open = from + idx
		if image {
			open++
		}
		close = open + 1
	}
	if open < 0 || close >= len(f.src) {
		return r, ok
	}

	start := open
	if image && start > 0 && f.src[start-1] == '!' {
		start--
	}
	end := close + 1
	if end < len(f.src) {
		switch f.src[end] {
		case '(':
			end = matchClosing(f.src, end, '(', ')')
		case '[':
			end = matchClosing(f.src, end, '[', ']')
		}
	}
	return SourceRange{Start: start, End: end}, true
}

// matchClosing returns the offset just past the bracket closing the one at
// pos. Backslash escapes and <...> destinations are skipped.
func matchClosing(src []byte, pos int, open, close byte) int {
	depth := 0
	angle := false
	for i := pos; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\\':
			i++
		case c == '<' && open == '(':
			angle = true
		case c == '>' && angle:
			angle = false
		case angle:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i + 1
			}
		case c == '\n' && i+1 < len(src) && src[i+1] == '\n':
			return pos + 1
		}
	}
	return pos + 1
}

// linkType infers how a link was written from the syntax after its text.
func (f *flattener) linkType(r SourceRange) LinkType {
	if r.Len() == 0 {
		return LinkInline
	}
	body := f.src[r.Start:r.End]
	switch {
	case bytes.HasSuffix(body, []byte(")")):
		return LinkInline
	case bytes.HasSuffix(body, []byte("[]")):
		return LinkCollapsed
	case bytes.HasSuffix(body, []byte("]")) && bytes.Contains(body, []byte("][")):
		return LinkReference
	default:
		return LinkShortcut
	}
}

func (f *flattener) wikiSpan(node *wikilink.Node) (SourceRange, bool) {
	needle := []byte("[[")
	if node.Embed {
		needle = []byte("![[")
	}
	start := f.origin(node)
	if r, ok := f.childrenSpan(node); ok {
		start = lineStart(f.src, r.Start)
		if idx := bytes.LastIndex(f.src[start:r.Start], needle); idx >= 0 {
			start += idx
		}
	} else if idx := bytes.Index(f.src[start:], needle); idx >= 0 {
		start += idx
	} else {
		return SourceRange{}, false
	}
	end := bytes.Index(f.src[start:], []byte("]]"))
	if end < 0 {
		return SourceRange{}, false
	}
	return SourceRange{Start: start, End: start + end + 2}, true
}

// wikiLabelRange is the target text inside a label-less wikilink.
func (f *flattener) wikiLabelRange(r SourceRange) SourceRange {
	inner := r
	for inner.Start < inner.End && (f.src[inner.Start] == '[' || f.src[inner.Start] == '!') {
		inner.Start++
	}
	if inner.End-2 >= inner.Start {
		inner.End -= 2
	}
	return inner
}

func (f *flattener) listItemSpan(n ast.Node) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	if !ok {
		// Empty item: the marker alone.
		from := f.origin(n)
		pos := f.skipIndent(lineStart(f.src, from))
		if pos < from {
			pos = f.skipIndent(lineEnd(f.src, from))
		}
		return SourceRange{Start: pos, End: f.trimEnd(lineEnd(f.src, pos))}, pos < len(f.src)
	}

	p := r.Start
	for p > 0 && (f.src[p-1] == ' ' || f.src[p-1] == '\t') {
		p--
	}
	switch {
	case p > 0 && bytes.IndexByte([]byte("-+*"), f.src[p-1]) >= 0:
		p--
	case p > 0 && (f.src[p-1] == '.' || f.src[p-1] == ')'):
		p--
		for p > 0 && f.src[p-1] >= '0' && f.src[p-1] <= '9' {
			p--
		}
	}
	r.Start = p
	return r, true
}

// prefixedChildren extends a container's children back to the nearest marker
// on the first child's line.
func (f *flattener) prefixedChildren(n ast.Node, marker []byte) (SourceRange, bool) {
	r, ok := f.childrenSpan(n)
	if !ok {
		return f.findForward(n, marker, len(marker))
	}
	ls := lineStart(f.src, r.Start)
	if idx := bytes.LastIndex(f.src[ls:r.Start], marker); idx >= 0 {
		r.Start = ls + idx
	}
	return r, true
}
