// host.go defines the capabilities the renderer needs from a view framework.
package md

import "fmt"

// ElementKind is the kind of element the renderer asks a host to build.
type ElementKind int

const (
	ElDiv ElementKind = iota
	ElSpan
	ElParagraph
	ElBlockQuote
	ElUl
	ElOl
	ElLi
	ElHeading
	ElTable
	ElThead
	ElTrow
	ElTcell
	ElItalics
	ElBold
	ElStrikeThrough
	ElPre
	ElCode
)

var elementKindNames = map[ElementKind]string{
	ElDiv:           "div",
	ElSpan:          "span",
	ElParagraph:     "paragraph",
	ElBlockQuote:    "blockquote",
	ElUl:            "ul",
	ElOl:            "ol",
	ElLi:            "li",
	ElHeading:       "heading",
	ElTable:         "table",
	ElThead:         "thead",
	ElTrow:          "trow",
	ElTcell:         "tcell",
	ElItalics:       "italics",
	ElBold:          "bold",
	ElStrikeThrough: "strikethrough",
	ElPre:           "pre",
	ElCode:          "code",
}

func (k ElementKind) String() string {
	if name, ok := elementKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// HTMLElement is an ElementKind plus the numeric payload some kinds carry.
type HTMLElement struct {
	Kind ElementKind

	// Level is the heading level (1-6) for ElHeading.
	Level int

	// Number is the start ordinal for ElOl and the item ordinal for an ElLi
	// inside an ordered list. It is 0 for items of unordered lists.
	Number int
}

// El returns an element of a kind that carries no payload.
func El(kind ElementKind) HTMLElement { return HTMLElement{Kind: kind} }

// Heading returns a heading element of the given level.
func Heading(level int) HTMLElement { return HTMLElement{Kind: ElHeading, Level: level} }

// Ol returns an ordered list element starting at start.
func Ol(start int) HTMLElement { return HTMLElement{Kind: ElOl, Number: start} }

// Li returns a list item element; ordinal is 0 outside ordered lists.
func Li(ordinal int) HTMLElement { return HTMLElement{Kind: ElLi, Number: ordinal} }

// Attributes is the bundle of presentation data attached to an element.
type Attributes struct {
	ID      string
	Classes []string
	Style   string

	// InnerHTML is a raw html payload. Hosts that can mount raw html use it in
	// place of the element's children; others ignore it.
	InnerHTML string

	// OnClick is nil for inert elements.
	OnClick *ClickHandler
}

// Stylesheet describes a stylesheet link the host should mount.
type Stylesheet struct {
	Rel         string
	Href        string
	Integrity   string
	CrossOrigin string
}

// KatexStylesheet is mounted for documents containing math.
var KatexStylesheet = Stylesheet{
	Rel:         "stylesheet",
	Href:        "https://cdn.jsdelivr.net/npm/katex@0.16.7/dist/katex.min.css",
	Integrity:   "sha384-3UiQGuEI4TTMaFmGIZumfRPtfKQ3trwQE2JgosJxCnGmQpL/lJdjpcHkaaFwHlcI",
	CrossOrigin: "anonymous",
}

// Host is the view capability interface. V is the host's view node type.
//
// Click handlers reach the host as *ClickHandler values; the host binds them to
// its own event system and calls Handle when the element is activated. Link and
// component overrides are plain Go functions returning V, so the host does not
// need to wrap them.
type Host[V any] interface {
	// Element builds an element of the given kind around inside.
	Element(el HTMLElement, inside V, attrs Attributes) V
	Rule(attrs Attributes) V
	LineBreak() V
	// Fragment groups sibling nodes without a wrapper.
	Fragment(children []V) V
	Anchor(children V, href string) V
	Image(src, alt string) V
	Text(s string) V
	// Empty is a node that renders nothing.
	Empty() V
	Checkbox(checked bool, attrs Attributes) V
	// MountStylesheet may be called repeatedly with the same link; the host
	// deduplicates.
	MountStylesheet(link Stylesheet)
}

// Slot is an output location the renderer writes into once per pass.
type Slot[T any] interface {
	Set(value T)
}

// SlotFunc adapts a function to Slot.
type SlotFunc[T any] func(T)

// Set calls f(value).
func (f SlotFunc[T]) Set(value T) { f(value) }

// Ref is a Slot backed by a variable.
type Ref[T any] struct {
	Value T
	IsSet bool
}

// Set stores value.
func (r *Ref[T]) Set(value T) {
	r.Value = value
	r.IsSet = true
}
