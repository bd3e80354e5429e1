// render.go rebuilds the document tree from the flat event stream.
package md

import "strings"

// frame is an open construct waiting for its End event.
type frame[V any] struct {
	tag      Tag
	rng      SourceRange
	children []V

	// text collects code block contents, html block payloads and, below an
	// image, the alt text.
	text []string

	next    int // TagList: ordinal of the next item
	ordinal int // TagItem: ordinal inside an ordered list, 0 otherwise
}

// buffers reports whether leaf text is concatenated instead of rendered.
func (f *frame[V]) buffers() bool {
	return f.tag.Kind == TagCodeBlock || f.tag.Kind == TagHTMLBlock
}

type renderer[V any] struct {
	host  Host[V]
	props *Props[V]
	stack []*frame[V]
	out   []V

	images int // open TagImage frames; their text becomes alt text

	// Deferred until the stream has been checked.
	maths       int
	frontmatter Ref[string]
}

// Render walks items once and returns the document as a single fragment.
//
// The stream must be well formed: every Start is closed by exactly one End of
// the same kind, properly nested. Any violation aborts with a *StructuralError
// and no view.
func Render[V any](host Host[V], items []Item, props Props[V]) (V, error) {
	if props.HardLineBreaks {
		items = withHardBreaks(items)
	}

	r := &renderer[V]{host: host, props: &props}
	for _, it := range items {
		if err := r.step(it); err != nil {
			var zero V
			return zero, err
		}
	}
	if n := len(r.stack); n > 0 {
		var zero V
		top := r.stack[n-1]
		return zero, unclosed(top.tag.Kind, top.rng, n)
	}

	if r.frontmatter.IsSet && props.Frontmatter != nil {
		props.Frontmatter.Set(r.frontmatter.Value)
	}
	for range r.maths {
		host.MountStylesheet(KatexStylesheet)
	}
	return host.Fragment(r.out), nil
}

// withHardBreaks returns a copy of items with every SoftBreak turned into a HardBreak.
func withHardBreaks(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Event.Kind == EventSoftBreak {
			out[i].Event.Kind = EventHardBreak
		}
	}
	return out
}

func (r *renderer[V]) step(it Item) error {
	switch it.Event.Kind {
	case EventStart:
		r.open(it.Event.Tag, it.Range)
	case EventEnd:
		return r.close(it.Event, it.Range)
	case EventFrontmatter:
		r.frontmatter = Ref[string]{Value: it.Event.Text, IsSet: true}
	default:
		r.leaf(it.Event, it.Range)
	}
	return nil
}

func (r *renderer[V]) top() *frame[V] {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// emit appends a finished node to the innermost open frame, or to the output.
func (r *renderer[V]) emit(v V) {
	if f := r.top(); f != nil {
		f.children = append(f.children, v)
		return
	}
	r.out = append(r.out, v)
}

func (r *renderer[V]) open(tag Tag, rng SourceRange) {
	f := &frame[V]{tag: tag, rng: rng}
	switch tag.Kind {
	case TagList:
		if tag.Ordered {
			f.next = tag.Start
		}
	case TagItem:
		if parent := r.top(); parent != nil && parent.tag.Kind == TagList && parent.tag.Ordered {
			f.ordinal = parent.next
			parent.next++
		}
	case TagImage:
		r.images++
	}
	r.stack = append(r.stack, f)
}

func (r *renderer[V]) close(ev Event, rng SourceRange) error {
	n := len(r.stack)
	if n == 0 {
		return endWithoutStart(ev, rng)
	}
	f := r.stack[n-1]
	if f.tag.Kind != ev.Tag.Kind {
		return endMismatch(f.tag.Kind, ev, rng, n)
	}
	r.stack = r.stack[:n-1]
	if f.tag.Kind == TagImage {
		r.images--
	}

	if rng.End > f.rng.End {
		f.rng.End = rng.End
	}
	if parent := r.top(); parent != nil && r.images > 0 && len(f.text) > 0 && !f.buffers() {
		parent.text = append(parent.text, f.text...)
	}
	r.emit(r.build(f))
	return nil
}

// handler binds a range to the configured click callback.
func (r *renderer[V]) handler(rng SourceRange) *ClickHandler {
	return NewClickHandler(rng, r.props.OnClick)
}

func (r *renderer[V]) attrs(rng SourceRange) Attributes {
	return Attributes{OnClick: r.handler(rng)}
}

// build materializes a closed frame.
func (r *renderer[V]) build(f *frame[V]) V {
	h := r.host
	attrs := r.attrs(f.rng)
	inside := func() V { return h.Fragment(f.children) }

	switch f.tag.Kind {
	case TagParagraph:
		return h.Element(El(ElParagraph), inside(), attrs)
	case TagHeading:
		return h.Element(Heading(clampLevel(f.tag.Level)), inside(), attrs)
	case TagBlockQuote:
		return h.Element(El(ElBlockQuote), inside(), attrs)
	case TagList:
		if f.tag.Ordered {
			return h.Element(Ol(f.tag.Start), inside(), attrs)
		}
		return h.Element(El(ElUl), inside(), attrs)
	case TagItem:
		return h.Element(Li(f.ordinal), inside(), attrs)
	case TagTable:
		return h.Element(El(ElTable), inside(), attrs)
	case TagTableHead:
		return h.Element(El(ElThead), inside(), attrs)
	case TagTableRow:
		return h.Element(El(ElTrow), inside(), attrs)
	case TagTableCell:
		if align := f.tag.Align.CSS(); align != "" {
			attrs.Style = "text-align: " + align
		}
		return h.Element(El(ElTcell), inside(), attrs)
	case TagEmphasis:
		return h.Element(El(ElItalics), inside(), attrs)
	case TagStrong:
		return h.Element(El(ElBold), inside(), attrs)
	case TagStrikethrough:
		return h.Element(El(ElStrikeThrough), inside(), attrs)
	case TagFootnoteDefinition:
		attrs.ID = footnoteID(f.tag.Label)
		attrs.Classes = []string{"footnote-definition"}
		return h.Element(El(ElDiv), inside(), attrs)
	case TagCodeBlock:
		return r.codeBlock(f, attrs)
	case TagHTMLBlock:
		attrs.InnerHTML = strings.Join(f.text, "")
		return h.Element(El(ElDiv), h.Empty(), attrs)
	case TagLink, TagImage:
		return r.link(f)
	case TagComponent:
		return r.component(f)
	default:
		return inside()
	}
}

func (r *renderer[V]) codeBlock(f *frame[V], attrs Attributes) V {
	h := r.host
	code := strings.Join(f.text, "")

	var codeAttrs Attributes
	if f.tag.Lang != "" {
		codeAttrs.Classes = []string{"language-" + f.tag.Lang}
	}
	inside := h.Element(El(ElCode), h.Text(code), codeAttrs)

	if r.props.Theme != "" {
		if highlighted, err := Highlight(code, f.tag.Lang, r.props.Theme); err == nil {
			attrs.InnerHTML = highlighted
			attrs.Classes = append(attrs.Classes, "highlight")
		}
	}
	return h.Element(El(ElPre), inside, attrs)
}

func (r *renderer[V]) link(f *frame[V]) V {
	h := r.host
	desc := LinkDescription[V]{
		URL:      f.tag.URL,
		Content:  h.Fragment(f.children),
		Title:    f.tag.Title,
		LinkType: f.tag.LinkType,
		Image:    f.tag.Kind == TagImage,
		Position: f.rng,
	}
	if r.props.RenderLinks != nil {
		return r.props.RenderLinks(desc)
	}
	if desc.Image {
		alt := strings.Join(f.text, "")
		if alt == "" {
			alt = desc.Title
		}
		return h.Image(desc.URL, alt)
	}
	return h.Anchor(desc.Content, desc.URL)
}

// component dispatches to the registered renderer. Unknown names render as
// Empty so one missing registration cannot break the rest of the document.
func (r *renderer[V]) component(f *frame[V]) V {
	render, ok := r.props.Components[f.tag.Name]
	if !ok || render == nil {
		if r.props.OnMissingComponent != nil {
			r.props.OnMissingComponent(f.tag.Name, f.rng)
		}
		return r.host.Empty()
	}
	return render(ComponentProps[V]{
		Name:       f.tag.Name,
		Attributes: f.tag.Attributes,
		Children:   r.host.Fragment(f.children),
		Position:   f.rng,
	})
}

func (r *renderer[V]) leaf(ev Event, rng SourceRange) {
	h := r.host
	top := r.top()
	buffering := top != nil && top.buffers()

	switch ev.Kind {
	case EventText:
		if buffering {
			top.text = append(top.text, ev.Text)
			return
		}
		if r.images > 0 {
			top.text = append(top.text, ev.Text)
		}
		r.emit(h.Element(El(ElSpan), h.Text(ev.Text), r.attrs(rng)))

	case EventCode:
		if r.images > 0 {
			top.text = append(top.text, ev.Text)
		}
		r.emit(h.Element(El(ElCode), h.Text(ev.Text), r.attrs(rng)))

	case EventHTML:
		if buffering {
			top.text = append(top.text, ev.Text)
			return
		}
		attrs := r.attrs(rng)
		attrs.InnerHTML = ev.Text
		r.emit(h.Element(El(ElSpan), h.Empty(), attrs))

	case EventRule:
		r.emit(h.Rule(r.attrs(rng)))

	case EventSoftBreak:
		if buffering {
			top.text = append(top.text, "\n")
			return
		}
		r.emit(h.Text("\n"))

	case EventHardBreak:
		if buffering {
			top.text = append(top.text, "\n")
			return
		}
		r.emit(h.LineBreak())

	case EventTaskListMarker:
		r.emit(h.Checkbox(ev.Checked, Attributes{
			OnClick: NewTaskListHandler(rng, r.props.OnClick),
		}))

	case EventFootnoteReference:
		ref := h.Anchor(h.Text("["+ev.Text+"]"), "#"+footnoteID(ev.Text))
		attrs := r.attrs(rng)
		attrs.Classes = []string{"footnote-reference"}
		r.emit(h.Element(El(ElSpan), ref, attrs))

	case EventMath:
		attrs := r.attrs(rng)
		el := El(ElSpan)
		attrs.Classes = []string{"math", "math-inline"}
		if ev.Display {
			el = El(ElDiv)
			attrs.Classes = []string{"math", "math-display"}
		}
		r.emit(h.Element(el, h.Text(ev.Text), attrs))
		r.maths++
	}
}

func footnoteID(label string) string {
	return "footnote-" + label
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
