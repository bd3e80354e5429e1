package md

// LinkDescription is handed to a link renderer when a link or image closes.
type LinkDescription[V any] struct {
	URL string

	// Content is the already rendered view of the link text or image alt.
	Content V

	// Title is the optional link title; usually empty.
	Title string

	LinkType LinkType

	// Image is true for ![alt](src) and embedded wikilinks.
	Image bool

	Position SourceRange
}

// ComponentProps is handed to a registered component renderer.
type ComponentProps[V any] struct {
	Name       string
	Attributes []Attribute
	Children   V
	Position   SourceRange
}

// Attr returns the value of the first attribute named key.
func (p ComponentProps[V]) Attr(key string) (string, bool) {
	for _, a := range p.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// LinkRenderer replaces the default anchor/image rendering.
type LinkRenderer[V any] func(LinkDescription[V]) V

// ComponentRenderer renders one custom component.
type ComponentRenderer[V any] func(ComponentProps[V]) V

// Props configures one render pass. The zero value renders with defaults:
// no overrides, inert clicks and standard soft breaks.
type Props[V any] struct {
	// OnClick receives a MarkdownMouseEvent for every activated node.
	OnClick ClickFunc

	// RenderLinks, when set, renders every link and image.
	RenderLinks LinkRenderer[V]

	// Components maps component names to their renderers.
	Components map[string]ComponentRenderer[V]

	// OnMissingComponent is told about component names with no renderer.
	// The component still renders as Empty.
	OnMissingComponent func(name string, position SourceRange)

	// Theme names a chroma style used to highlight fenced code. Empty disables
	// highlighting.
	Theme string

	Wikilinks      bool
	HardLineBreaks bool

	// ParseOptions overrides the parser extensions; nil enables all.
	ParseOptions *Options

	// OnWarning receives parser warnings such as unpaired component tags.
	OnWarning func(Warning)

	// Frontmatter receives the raw YAML frontmatter, if the document has one.
	Frontmatter Slot[string]
}

func (p *Props[V]) parseOptions() Options {
	if p.ParseOptions == nil {
		return OptionsAll
	}
	return *p.ParseOptions
}
