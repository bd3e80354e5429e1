package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/open-cli-collective/mdview/pkg/vdom"
)

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	// Width is the wrap column. Values below 20 are raised to 20.
	Width int
	// Theme is a chroma style for code blocks; empty leaves code uncolored.
	Theme string
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	faint        = color.New(color.Faint)
	codeColor    = color.New(color.FgYellow)
	mathColor    = color.New(color.FgMagenta)
	linkColor    = color.New(color.FgBlue, color.Underline)
)

// Terminal renders a rendered document tree as ANSI text.
func Terminal(root *vdom.Node, opts TerminalOptions) string {
	if opts.Width < 20 {
		opts.Width = 20
	}
	p := &termPrinter{opts: opts}

	nodes := []*vdom.Node{root}
	if root.Kind == vdom.FragmentNode {
		nodes = root.Children
	}
	out := p.blocks(nodes, opts.Width, "\n\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type termPrinter struct {
	opts TerminalOptions
}

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "ul": true, "ol": true, "li": true, "table": true,
	"pre": true, "hr": true, "div": true,
}

func isBlock(n *vdom.Node) bool {
	return n.Kind == vdom.ElementNode && blockTags[n.Tag]
}

// blocks renders nodes as a sequence of blocks joined by sep. Runs of inline
// nodes between blocks are treated as one paragraph.
func (p *termPrinter) blocks(nodes []*vdom.Node, width int, sep string) string {
	var parts []string
	var run []*vdom.Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		if text := p.paragraph(run, width); text != "" {
			parts = append(parts, text)
		}
		run = nil
	}

	for _, n := range nodes {
		if !isBlock(n) {
			run = append(run, n)
			continue
		}
		flush()
		if text := p.block(n, width); text != "" {
			parts = append(parts, text)
		}
	}
	flush()
	return strings.Join(parts, sep)
}

func (p *termPrinter) block(n *vdom.Node, width int) string {
	switch n.Tag {
	case "p":
		return p.paragraph(n.Children, width)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Tag[1:])
		title := strings.Repeat("#", level) + " " + p.inlines(n.Children)
		return headingColor.Sprint(wordwrap.String(title, width))
	case "blockquote":
		inner := p.blocks(n.Children, width-2, "\n\n")
		return prefixLines(inner, faint.Sprint("│ "))
	case "ul", "ol":
		return p.list(n, width)
	case "li":
		return p.item(n, "• ", width)
	case "table":
		return p.table(n)
	case "pre":
		return p.code(n)
	case "hr":
		return faint.Sprint(strings.Repeat("─", width))
	case "div":
		if n.HasClass("math") {
			return mathColor.Sprint(n.TextContent())
		}
		if n.InnerHTML != "" {
			return faint.Sprint(strings.TrimSpace(n.InnerHTML))
		}
		return p.blocks(n.Children, width, "\n\n")
	}
	return ""
}

func (p *termPrinter) paragraph(nodes []*vdom.Node, width int) string {
	text := strings.TrimSpace(p.inlines(nodes))
	if text == "" {
		return ""
	}
	return wordwrap.String(text, width)
}

func (p *termPrinter) list(n *vdom.Node, width int) string {
	next := 1
	if start, ok := n.Attr("start"); ok {
		if v, err := strconv.Atoi(start); err == nil {
			next = v
		}
	}

	var items []string
	for _, li := range n.Children {
		marker := "• "
		if n.Tag == "ol" {
			if v, ok := li.Attr("value"); ok {
				if num, err := strconv.Atoi(v); err == nil {
					next = num
				}
			}
			marker = fmt.Sprintf("%d. ", next)
			next++
		}
		items = append(items, p.item(li, marker, width))
	}
	return strings.Join(items, "\n")
}

// item hangs the body of a list item off its marker.
func (p *termPrinter) item(li *vdom.Node, marker string, width int) string {
	pad := ansi.PrintableRuneWidth(marker)
	body := p.blocks(li.Children, width-pad, "\n")
	first, rest, found := strings.Cut(body, "\n")
	if !found {
		return marker + first
	}
	return marker + first + "\n" + indent.String(rest, uint(pad))
}

func (p *termPrinter) code(pre *vdom.Node) string {
	var lang string
	code := pre.TextContent()
	for _, c := range pre.Children {
		for _, class := range c.Classes {
			if l, ok := strings.CutPrefix(class, "language-"); ok {
				lang = l
			}
		}
	}
	code = strings.TrimRight(code, "\n")

	if p.opts.Theme != "" {
		if highlighted, err := md.HighlightTerminal(code, lang, p.opts.Theme); err == nil {
			code = strings.TrimRight(highlighted, "\n")
		}
	}
	return indent.String(code, 4)
}

type tableCell struct {
	text  string
	align string
}

func (p *termPrinter) table(n *vdom.Node) string {
	var rows [][]tableCell
	header := -1
	for _, tr := range n.FindTag("tr") {
		var row []tableCell
		for _, cell := range tr.Children {
			if cell.Kind != vdom.ElementNode {
				continue
			}
			row = append(row, tableCell{
				text:  strings.TrimSpace(p.inlines(cell.Children)),
				align: strings.TrimSpace(strings.TrimPrefix(cell.Style, "text-align:")),
			})
			if cell.Tag == "th" {
				header = len(rows)
			}
		}
		rows = append(rows, row)
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(cell.text))
		}
	}

	var lines []string
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = alignCell(cell, widths[i])
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if r == header {
			lines = append(lines, color.New(color.Bold).Sprint(line))
			total := 0
			for _, w := range widths {
				total += w
			}
			total += 2 * (len(widths) - 1)
			lines = append(lines, faint.Sprint(strings.Repeat("─", total)))
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func alignCell(cell tableCell, width int) string {
	gap := width - ansi.PrintableRuneWidth(cell.text)
	if gap <= 0 {
		return cell.text
	}
	switch cell.align {
	case "right":
		return strings.Repeat(" ", gap) + cell.text
	case "center":
		left := gap / 2
		return strings.Repeat(" ", left) + cell.text + strings.Repeat(" ", gap-left)
	default:
		return cell.text + strings.Repeat(" ", gap)
	}
}

func (p *termPrinter) inlines(nodes []*vdom.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(p.inline(n))
	}
	return sb.String()
}

func (p *termPrinter) inline(n *vdom.Node) string {
	if n.Kind == vdom.TextNode {
		return strings.ReplaceAll(n.Text, "\n", " ")
	}
	inner := p.inlines(n.Children)
	if n.HasClass("math") {
		return mathColor.Sprint(inner)
	}

	switch n.Tag {
	case "em":
		return color.New(color.Italic).Sprint(inner)
	case "strong":
		return color.New(color.Bold).Sprint(inner)
	case "del":
		return color.New(color.CrossedOut).Sprint(inner)
	case "code":
		return codeColor.Sprint(inner)
	case "br":
		return "\n"
	case "a":
		href, _ := n.Attr("href")
		if href == "" || href == inner || strings.HasPrefix(href, "#") || strings.TrimPrefix(href, "mailto:") == inner {
			return linkColor.Sprint(inner)
		}
		return linkColor.Sprint(inner) + faint.Sprint(" <"+href+">")
	case "img":
		alt, _ := n.Attr("alt")
		return faint.Sprint("[image: " + alt + "]")
	case "input":
		if _, checked := n.Attr("checked"); checked {
			return "[x] "
		}
		return "[ ] "
	case "span":
		if n.InnerHTML != "" {
			return faint.Sprint(n.InnerHTML)
		}
	}
	return inner
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
