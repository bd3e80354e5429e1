// component.go recognizes custom component tags written as capitalized html.
package md

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
)

// componentRole says how a raw html fragment takes part in a component.
type componentRole int

const (
	roleOpen    componentRole = iota // <Name attrs>
	roleClose                        // </Name>
	roleSelf                         // <Name attrs/>
	roleElement                      // <Name attrs>inner</Name> inside one html block
)

// componentTag is a classified component fragment.
type componentTag struct {
	role       componentRole
	name       string
	attributes []Attribute

	// inner is the text between the tags of a roleElement, at byte offset
	// innerOffset of the trimmed fragment.
	inner       string
	innerOffset int

	// span covers the whole component once open and close tags are paired.
	span SourceRange
}

var (
	componentOpenRe  = regexp.MustCompile(`^<([A-Z][A-Za-z0-9_-]*)(?:\s[^<>]*)?/?>`)
	componentCloseRe = regexp.MustCompile(`^</([A-Z][A-Za-z0-9_-]*)\s*>$`)
)

// classifyComponent inspects a raw html fragment. Lowercase tags are plain
// html and never components.
func classifyComponent(raw string) (componentTag, bool) {
	trimmed := strings.TrimSpace(raw)
	lead := strings.Index(raw, trimmed)

	if m := componentCloseRe.FindStringSubmatch(trimmed); m != nil {
		return componentTag{role: roleClose, name: m[1]}, true
	}

	loc := componentOpenRe.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return componentTag{}, false
	}
	tagText := trimmed[:loc[1]]
	tag := componentTag{
		name:       trimmed[loc[2]:loc[3]],
		attributes: parseComponentAttributes(tagText),
	}
	rest := trimmed[loc[1]:]
	selfClosing := strings.HasSuffix(tagText, "/>")

	switch {
	case rest == "" && selfClosing:
		tag.role = roleSelf
	case rest == "":
		tag.role = roleOpen
	case !selfClosing && strings.HasSuffix(rest, "</"+tag.name+">"):
		tag.role = roleElement
		tag.inner = rest[:len(rest)-len("</"+tag.name+">")]
		tag.innerOffset = lead + loc[1]
	default:
		return componentTag{}, false
	}
	return tag, true
}

// parseComponentAttributes reads the attributes of a single start tag.
// Keys come back lower-cased, as html tokenizing defines them.
func parseComponentAttributes(tagText string) []Attribute {
	z := html.NewTokenizer(strings.NewReader(tagText))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
	default:
		return nil
	}

	var attrs []Attribute
	_, more := z.TagName()
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if len(key) == 0 {
			continue
		}
		attrs = append(attrs, Attribute{Key: string(key), Value: string(val)})
	}
	return attrs
}

// pairComponents classifies the raw html children of parent and matches
// component open and close tags among them. Tags that cannot be paired stay
// raw html and are reported as warnings.
func (f *flattener) pairComponents(parent ast.Node) {
	type pending struct {
		node ast.Node
		tag  componentTag
	}
	var open []pending

	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		raw, ok := f.rawHTMLOf(c)
		if !ok {
			continue
		}
		tag, ok := classifyComponent(raw)
		if !ok {
			continue
		}
		r, _ := f.span(c)
		tag.span = r

		switch tag.role {
		case roleSelf, roleElement:
			f.components[c] = &tag
		case roleOpen:
			open = append(open, pending{node: c, tag: tag})
		case roleClose:
			if len(open) == 0 || open[len(open)-1].tag.name != tag.name {
				f.result.AddWarning(r, "closing tag </%s> has no matching open tag", tag.name)
				continue
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]

			top.tag.span.End = r.End
			closing := top.tag
			closing.role = roleClose
			f.components[top.node] = &top.tag
			f.components[c] = &closing
		}
	}
	for _, p := range open {
		f.result.AddWarning(p.tag.span, "component <%s> is never closed", p.tag.name)
	}
}

// rawHTMLOf returns the html text of a raw html node.
func (f *flattener) rawHTMLOf(n ast.Node) (string, bool) {
	switch node := n.(type) {
	case *ast.RawHTML:
		return string(rawHTML(node, f.src)), true
	case *ast.HTMLBlock:
		var sb strings.Builder
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			sb.Write(line.Value(f.src))
		}
		if node.HasClosure() {
			sb.Write(node.ClosureLine.Value(f.src))
		}
		return sb.String(), true
	}
	return "", false
}

func (f *flattener) emitComponent(n ast.Node, tag *componentTag) {
	ctag := Tag{Kind: TagComponent, Name: tag.name, Attributes: tag.attributes}
	switch tag.role {
	case roleOpen:
		f.emit(Start(ctag), tag.span)
	case roleClose:
		f.emit(End(ctag), tag.span)
	case roleSelf:
		f.emit(Start(ctag), tag.span)
		f.emit(End(ctag), tag.span)
	case roleElement:
		f.emit(Start(ctag), tag.span)
		if strings.TrimSpace(tag.inner) != "" {
			start := min(tag.span.Start+tag.innerOffset, tag.span.End)
			end := min(start+len(tag.inner), tag.span.End)
			f.emit(Text(strings.TrimSpace(tag.inner)), SourceRange{Start: start, End: end})
		}
		f.emit(End(ctag), tag.span)
	}
}
