// parser.go flattens a goldmark AST into the position-tagged event stream.
package md

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/wikilink"
)

// Options selects the markdown extensions recognized by the parser.
type Options uint32

const (
	OptTables Options = 1 << iota
	OptFootnotes
	OptStrikethrough
	OptTaskLists
	OptLinkify
	OptMath
	OptComponents
	OptFrontmatter
)

// OptionsAll enables every extension.
const OptionsAll = OptTables | OptFootnotes | OptStrikethrough | OptTaskLists |
	OptLinkify | OptMath | OptComponents | OptFrontmatter

var optionNames = map[string]Options{
	"tables":        OptTables,
	"footnotes":     OptFootnotes,
	"strikethrough": OptStrikethrough,
	"tasklists":     OptTaskLists,
	"linkify":       OptLinkify,
	"math":          OptMath,
	"components":    OptComponents,
	"frontmatter":   OptFrontmatter,
}

// Has reports whether every flag in flag is set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// Names returns the sorted extension names enabled in o.
func (o Options) Names() []string {
	var names []string
	for name, flag := range optionNames {
		if o.Has(flag) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ParseOptionNames converts extension names to Options. No names means all.
func ParseOptionNames(names []string) (Options, error) {
	if len(names) == 0 {
		return OptionsAll, nil
	}
	var o Options
	for _, name := range names {
		flag, ok := optionNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown extension %q", name)
		}
		o |= flag
	}
	return o, nil
}

// Warning is a non-fatal problem found while flattening a document.
type Warning struct {
	Message string
	Range   SourceRange
}

// ParseResult is the flattened document.
type ParseResult struct {
	Items    []Item
	Warnings []Warning
}

// AddWarning records a warning.
func (pr *ParseResult) AddWarning(r SourceRange, format string, args ...interface{}) {
	pr.Warnings = append(pr.Warnings, Warning{
		Message: fmt.Sprintf(format, args...),
		Range:   r,
	})
}

func (pr *ParseResult) add(ev Event, r SourceRange) {
	pr.Items = append(pr.Items, Item{Event: ev, Range: r})
}

// Parser turns markdown source into an event stream.
type Parser struct {
	opts     Options
	markdown goldmark.Markdown
}

// NewParser builds a parser with the given extensions.
func NewParser(opts Options, wikilinks bool) *Parser {
	var exts []goldmark.Extender
	if opts.Has(OptTables) {
		exts = append(exts, extension.Table)
	}
	if opts.Has(OptStrikethrough) {
		exts = append(exts, extension.Strikethrough)
	}
	if opts.Has(OptTaskLists) {
		exts = append(exts, extension.TaskList)
	}
	if opts.Has(OptLinkify) {
		exts = append(exts, extension.Linkify)
	}
	if opts.Has(OptFootnotes) {
		exts = append(exts, extension.Footnote)
	}

	var inline []util.PrioritizedValue
	if opts.Has(OptMath) {
		inline = append(inline, util.Prioritized(&mathParser{}, 150))
	}
	if wikilinks {
		// Ahead of the link parser (200) so [[...]] is not read as a link.
		inline = append(inline, util.Prioritized(&wikilink.Parser{}, 199))
	}

	return &Parser{
		opts: opts,
		markdown: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithInlineParsers(inline...)),
		),
	}
}

// Parse flattens source into items. Ranges index into source unchanged,
// including when a frontmatter block is present.
func (p *Parser) Parse(source []byte) *ParseResult {
	result := &ParseResult{}
	src := source

	if p.opts.Has(OptFrontmatter) {
		if payload, block, ok := splitFrontmatter(source); ok {
			result.add(Frontmatter(string(source[payload.Start:payload.End])), block)
			src = maskRange(source, block)
		}
	}

	doc := p.markdown.Parser().Parse(text.NewReader(src))
	f := &flattener{
		src:        src,
		opts:       p.opts,
		result:     result,
		spans:      make(map[ast.Node]knownSpan),
		components: make(map[ast.Node]*componentTag),
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			return f.enter(n), nil
		}
		f.exit(n)
		return ast.WalkContinue, nil
	})
	return result
}

// flattener carries the state of one AST walk.
type flattener struct {
	src    []byte
	opts   Options
	result *ParseResult

	spans      map[ast.Node]knownSpan
	components map[ast.Node]*componentTag

	// cursor is the furthest offset reached so far. Nodes goldmark gives no
	// position for are located by searching forward from it.
	cursor int
}

func (f *flattener) emit(ev Event, r SourceRange) {
	f.result.add(ev, r)
	pos := r.End
	if ev.Kind == EventStart {
		pos = r.Start
	}
	if pos > f.cursor {
		f.cursor = pos
	}
}

// tagFor maps a container node to the tag it opens. ok is false for nodes
// that produce no Start/End pair.
func (f *flattener) tagFor(n ast.Node) (Tag, bool) {
	switch node := n.(type) {
	case *ast.Paragraph:
		return Tag{Kind: TagParagraph}, true
	case *ast.Heading:
		return Tag{Kind: TagHeading, Level: node.Level}, true
	case *ast.Blockquote:
		return Tag{Kind: TagBlockQuote}, true
	case *ast.List:
		tag := Tag{Kind: TagList, Ordered: node.IsOrdered()}
		if tag.Ordered {
			tag.Start = node.Start
		}
		return tag, true
	case *ast.ListItem:
		return Tag{Kind: TagItem}, true
	case *extast.Table:
		aligns := make([]Alignment, len(node.Alignments))
		for i, a := range node.Alignments {
			aligns[i] = alignment(a)
		}
		return Tag{Kind: TagTable, Alignments: aligns}, true
	case *extast.TableHeader:
		return Tag{Kind: TagTableHead}, true
	case *extast.TableRow:
		return Tag{Kind: TagTableRow}, true
	case *extast.TableCell:
		return Tag{Kind: TagTableCell, Align: alignment(node.Alignment)}, true
	case *extast.Footnote:
		return Tag{Kind: TagFootnoteDefinition, Label: string(node.Ref)}, true
	case *ast.Emphasis:
		if node.Level >= 2 {
			return Tag{Kind: TagStrong}, true
		}
		return Tag{Kind: TagEmphasis}, true
	case *extast.Strikethrough:
		return Tag{Kind: TagStrikethrough}, true
	case *ast.Link:
		r, _ := f.span(n)
		return Tag{
			Kind:     TagLink,
			LinkType: f.linkType(r),
			URL:      string(node.Destination),
			Title:    string(node.Title),
		}, true
	case *ast.Image:
		r, _ := f.span(n)
		return Tag{
			Kind:     TagImage,
			LinkType: f.linkType(r),
			URL:      string(node.Destination),
			Title:    string(node.Title),
		}, true
	case *wikilink.Node:
		tag := Tag{Kind: TagLink, LinkType: LinkWiki, URL: wikiURL(node)}
		if node.Embed {
			tag.Kind = TagImage
		}
		return tag, true
	}
	return Tag{}, false
}

func (f *flattener) enter(n ast.Node) ast.WalkStatus {
	if f.opts.Has(OptComponents) && n.HasChildren() {
		f.pairComponents(n)
	}
	if tag, ok := f.components[n]; ok {
		f.emitComponent(n, tag)
		return ast.WalkSkipChildren
	}

	switch node := n.(type) {
	case *ast.Document, *ast.TextBlock, *extast.FootnoteList:
		return ast.WalkContinue

	case *ast.Text:
		f.emitText(node)
		return ast.WalkContinue

	case *ast.String:
		r := SourceRange{Start: f.cursor, End: f.cursor}
		f.emit(Text(string(node.Value)), r)
		return ast.WalkContinue

	case *ast.CodeSpan:
		r, _ := f.span(n)
		f.emit(Code(f.codeSpanText(node)), r)
		return ast.WalkSkipChildren

	case *ast.RawHTML:
		r, _ := f.span(n)
		f.emit(HTML(string(rawHTML(node, f.src))), r)
		return ast.WalkSkipChildren

	case *ast.AutoLink:
		r, _ := f.span(n)
		tag := Tag{Kind: TagLink, LinkType: LinkAutolink, URL: string(node.URL(f.src))}
		if node.AutoLinkType == ast.AutoLinkEmail {
			tag.LinkType = LinkEmail
			if !strings.HasPrefix(tag.URL, "mailto:") {
				tag.URL = "mailto:" + tag.URL
			}
		}
		f.emit(Start(tag), r)
		f.emit(Text(string(node.Label(f.src))), f.autoLinkLabelRange(r, node))
		f.emit(End(tag), r)
		return ast.WalkSkipChildren

	case *ast.ThematicBreak:
		r, _ := f.span(n)
		f.emit(Rule(), r)
		return ast.WalkSkipChildren

	case *ast.FencedCodeBlock:
		f.emitCodeBlock(n, Tag{Kind: TagCodeBlock, Lang: string(node.Language(f.src))})
		return ast.WalkSkipChildren

	case *ast.CodeBlock:
		f.emitCodeBlock(n, Tag{Kind: TagCodeBlock})
		return ast.WalkSkipChildren

	case *ast.HTMLBlock:
		f.emitHTMLBlock(node)
		return ast.WalkSkipChildren

	case *extast.TaskCheckBox:
		r, _ := f.span(n)
		f.emit(TaskListMarker(node.IsChecked), r)
		return ast.WalkSkipChildren

	case *extast.FootnoteLink:
		r, _ := f.span(n)
		label := strings.TrimSuffix(strings.TrimPrefix(string(f.src[r.Start:r.End]), "[^"), "]")
		f.emit(FootnoteReference(label), r)
		return ast.WalkSkipChildren

	case *extast.FootnoteBacklink:
		return ast.WalkSkipChildren

	case *mathNode:
		f.emit(Math(string(node.Value.Value(f.src)), node.Display), toRange(node.Outer))
		return ast.WalkSkipChildren

	case *wikilink.Node:
		tag, _ := f.tagFor(n)
		r, _ := f.span(n)
		f.emit(Start(tag), r)
		if !n.HasChildren() {
			f.emit(Text(string(node.Target)), f.wikiLabelRange(r))
		}
		return ast.WalkContinue
	}

	if tag, ok := f.tagFor(n); ok {
		r, _ := f.span(n)
		f.emit(Start(tag), r)
	}
	return ast.WalkContinue
}

func (f *flattener) exit(n ast.Node) {
	if _, ok := f.components[n]; ok {
		return
	}
	switch n.(type) {
	case *ast.AutoLink:
		return
	}
	if tag, ok := f.tagFor(n); ok {
		r, _ := f.span(n)
		f.emit(End(tag), r)
	}
}

func (f *flattener) emitText(node *ast.Text) {
	r := toRange(node.Segment)
	value := node.Segment.Value(f.src)
	if !node.IsRaw() {
		value = util.UnescapePunctuations(value)
		value = util.ResolveNumericReferences(value)
		value = util.ResolveEntityNames(value)
	}
	if len(value) > 0 {
		f.emit(Text(string(value)), r)
	}

	brk := SourceRange{Start: r.End, End: lineEnd(f.src, r.End)}
	switch {
	case node.HardLineBreak():
		f.emit(HardBreak(), brk)
	case node.SoftLineBreak():
		f.emit(SoftBreak(), brk)
	}
}

func (f *flattener) emitCodeBlock(n ast.Node, tag Tag) {
	r, _ := f.span(n)
	f.emit(Start(tag), r)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		f.emit(Text(string(line.Value(f.src))), toRange(line))
	}
	f.emit(End(tag), r)
}

func (f *flattener) emitHTMLBlock(node *ast.HTMLBlock) {
	tag := Tag{Kind: TagHTMLBlock}
	r, _ := f.span(node)
	f.emit(Start(tag), r)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		f.emit(HTML(string(line.Value(f.src))), toRange(line))
	}
	if node.HasClosure() {
		f.emit(HTML(string(node.ClosureLine.Value(f.src))), toRange(node.ClosureLine))
	}
	f.emit(End(tag), r)
}

// codeSpanText joins the text of a code span; line endings become spaces.
func (f *flattener) codeSpanText(node *ast.CodeSpan) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(f.src))
		case *ast.String:
			sb.Write(t.Value)
		}
	}
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

func rawHTML(node *ast.RawHTML, src []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < node.Segments.Len(); i++ {
		seg := node.Segments.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

func wikiURL(node *wikilink.Node) string {
	if len(node.Fragment) == 0 {
		return string(node.Target)
	}
	return string(node.Target) + "#" + string(node.Fragment)
}

func alignment(a extast.Alignment) Alignment {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}

func toRange(seg text.Segment) SourceRange {
	return SourceRange{Start: seg.Start, End: seg.Stop}
}

// lineEnd returns the offset just past the newline at or after pos.
func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}
