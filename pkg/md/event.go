// event.go defines the position-tagged event stream consumed by the renderer.
package md

import "fmt"

// SourceRange is a half-open byte interval [Start, End) into the markdown source.
type SourceRange struct {
	Start int
	End   int
}

// Len returns the number of source bytes covered by the range.
func (r SourceRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether the byte offset lies inside the range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// EventKind identifies the variant of an Event.
type EventKind int

const (
	EventStart             EventKind = iota // opens a block or inline construct
	EventEnd                                // closes the construct opened by the matching Start
	EventText                               // plain text
	EventCode                               // inline code span
	EventHTML                               // raw html passthrough
	EventRule                               // thematic break
	EventSoftBreak                          // soft line break
	EventHardBreak                          // hard line break
	EventTaskListMarker                     // [ ] or [x] at the head of a list item
	EventFootnoteReference                  // [^label]
	EventMath                               // $inline$ or $$display$$ math
	EventFrontmatter                        // leading YAML block
)

var eventKindNames = map[EventKind]string{
	EventStart:             "Start",
	EventEnd:               "End",
	EventText:              "Text",
	EventCode:              "Code",
	EventHTML:              "Html",
	EventRule:              "Rule",
	EventSoftBreak:         "SoftBreak",
	EventHardBreak:         "HardBreak",
	EventTaskListMarker:    "TaskListMarker",
	EventFootnoteReference: "FootnoteReference",
	EventMath:              "Math",
	EventFrontmatter:       "Frontmatter",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// TagKind enumerates the block and inline constructs that open and close.
type TagKind int

const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagHTMLBlock
	TagList
	TagItem
	TagFootnoteDefinition
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
	TagComponent
)

var tagKindNames = map[TagKind]string{
	TagParagraph:          "Paragraph",
	TagHeading:            "Heading",
	TagBlockQuote:         "BlockQuote",
	TagCodeBlock:          "CodeBlock",
	TagHTMLBlock:          "HtmlBlock",
	TagList:               "List",
	TagItem:               "Item",
	TagFootnoteDefinition: "FootnoteDefinition",
	TagTable:              "Table",
	TagTableHead:          "TableHead",
	TagTableRow:           "TableRow",
	TagTableCell:          "TableCell",
	TagEmphasis:           "Emphasis",
	TagStrong:             "Strong",
	TagStrikethrough:      "Strikethrough",
	TagLink:               "Link",
	TagImage:              "Image",
	TagComponent:          "Component",
}

func (k TagKind) String() string {
	if name, ok := tagKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TagKind(%d)", int(k))
}

// Alignment is the column alignment of a table cell.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// CSS returns the text-align value for the alignment, or "" for AlignNone.
func (a Alignment) CSS() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// LinkType classifies how a link or image was written in the source.
type LinkType int

const (
	LinkInline    LinkType = iota // [text](url)
	LinkReference                 // [text][label]
	LinkCollapsed                 // [label][]
	LinkShortcut                  // [label]
	LinkAutolink                  // <https://...> or a linkified bare url
	LinkEmail                     // <user@example.com>
	LinkWiki                      // [[Target|label]]
)

var linkTypeNames = map[LinkType]string{
	LinkInline:    "inline",
	LinkReference: "reference",
	LinkCollapsed: "collapsed",
	LinkShortcut:  "shortcut",
	LinkAutolink:  "autolink",
	LinkEmail:     "email",
	LinkWiki:      "wiki",
}

func (t LinkType) String() string {
	if name, ok := linkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LinkType(%d)", int(t))
}

// Attribute is a raw key/value pair captured from a component tag.
type Attribute struct {
	Key   string
	Value string
}

// Tag describes a construct opened by a Start event. Only the fields relevant
// to Kind are set.
type Tag struct {
	Kind TagKind

	Level int // TagHeading: 1-6

	Ordered bool // TagList
	Start   int  // TagList: first ordinal when Ordered

	Lang string // TagCodeBlock: info string language, may be empty

	Alignments []Alignment // TagTable: one per column
	Align      Alignment   // TagTableCell

	LinkType LinkType // TagLink, TagImage
	URL      string   // TagLink, TagImage
	Title    string   // TagLink, TagImage

	Label string // TagFootnoteDefinition

	Name       string      // TagComponent
	Attributes []Attribute // TagComponent
}

// Event is one token of the flattened document.
type Event struct {
	Kind EventKind
	Tag  Tag // EventStart, EventEnd

	// Text carries the payload of Text, Code, Html, Math, FootnoteReference
	// (the label) and Frontmatter events.
	Text string

	Checked bool // EventTaskListMarker
	Display bool // EventMath
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart, EventEnd:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Tag.Kind)
	case EventTaskListMarker:
		return fmt.Sprintf("%s(%t)", e.Kind, e.Checked)
	case EventRule, EventSoftBreak, EventHardBreak:
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	}
}

// Item pairs an event with the source range that produced it.
type Item struct {
	Event Event
	Range SourceRange
}

// Start returns a Start event for the tag.
func Start(tag Tag) Event { return Event{Kind: EventStart, Tag: tag} }

// End returns an End event for the tag.
func End(tag Tag) Event { return Event{Kind: EventEnd, Tag: tag} }

// Text returns a text event.
func Text(s string) Event { return Event{Kind: EventText, Text: s} }

// Code returns an inline code event.
func Code(s string) Event { return Event{Kind: EventCode, Text: s} }

// HTML returns a raw html event.
func HTML(s string) Event { return Event{Kind: EventHTML, Text: s} }

// Rule returns a thematic break event.
func Rule() Event { return Event{Kind: EventRule} }

// SoftBreak returns a soft line break event.
func SoftBreak() Event { return Event{Kind: EventSoftBreak} }

// HardBreak returns a hard line break event.
func HardBreak() Event { return Event{Kind: EventHardBreak} }

// TaskListMarker returns a task list checkbox event.
func TaskListMarker(checked bool) Event {
	return Event{Kind: EventTaskListMarker, Checked: checked}
}

// FootnoteReference returns a footnote reference event.
func FootnoteReference(label string) Event {
	return Event{Kind: EventFootnoteReference, Text: label}
}

// Math returns a math event.
func Math(tex string, display bool) Event {
	return Event{Kind: EventMath, Text: tex, Display: display}
}

// Frontmatter returns a frontmatter event carrying the raw YAML payload.
func Frontmatter(raw string) Event {
	return Event{Kind: EventFrontmatter, Text: raw}
}
