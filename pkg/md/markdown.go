package md

// Parse flattens source with the given extensions.
func Parse(source string, opts Options, wikilinks bool) *ParseResult {
	return NewParser(opts, wikilinks).Parse([]byte(source))
}

// RenderMarkdown parses source and renders it through host in one pass.
// Parser warnings go to props.OnWarning; they never fail the render.
func RenderMarkdown[V any](host Host[V], source string, props Props[V]) (V, error) {
	result := Parse(source, props.parseOptions(), props.Wikilinks)
	if props.OnWarning != nil {
		for _, w := range result.Warnings {
			props.OnWarning(w)
		}
	}
	return Render(host, result.Items, props)
}
