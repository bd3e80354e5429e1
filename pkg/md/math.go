package md

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KindMath is the goldmark node kind of $...$ and $$...$$ spans.
var KindMath = ast.NewNodeKind("Math")

// mathNode is an inline math span. Display math uses $$ delimiters and must
// close on the same line.
type mathNode struct {
	ast.BaseInline

	Display bool
	Value   text.Segment // TeX between the delimiters
	Outer   text.Segment // including the delimiters
}

func (n *mathNode) Kind() ast.NodeKind {
	return KindMath
}

func (n *mathNode) Dump(source []byte, level int) {
	display := "false"
	if n.Display {
		display = "true"
	}
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": display,
		"Value":   string(n.Value.Value(source)),
	}, nil)
}

// mathParser is a goldmark inline parser triggered by '$'.
type mathParser struct{}

var _ parser.InlineParser = (*mathParser)(nil)

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) < 2 {
		return nil
	}

	delim := []byte("$")
	if line[1] == '$' {
		delim = []byte("$$")
	}
	body := line[len(delim):]
	end := bytes.Index(body, delim)
	if end <= 0 {
		return nil
	}

	// Inline math follows the pandoc rule: no space just inside the
	// delimiters and no digit right after the closing one, so prices like
	// "$5 and $10" stay text.
	if len(delim) == 1 {
		if body[0] == ' ' || body[end-1] == ' ' {
			return nil
		}
		if after := len(delim) + end + 1; after < len(line) && line[after] >= '0' && line[after] <= '9' {
			return nil
		}
	}

	valueStart := seg.Start + len(delim)
	node := &mathNode{
		Display: len(delim) == 2,
		Value:   text.NewSegment(valueStart, valueStart+end),
		Outer:   text.NewSegment(seg.Start, valueStart+end+len(delim)),
	}
	block.Advance(len(delim)*2 + end)
	return node
}
