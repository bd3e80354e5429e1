// Package inspect provides commands that relate rendered nodes to the
// markdown source they came from.
package inspect

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdview/internal/view"
	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/open-cli-collective/mdview/pkg/vdom"
)

// document is a rendered markdown source.
type document struct {
	source string
	root   *vdom.Node
}

// load reads and renders the markdown named by args. onClick, when set,
// receives every click dispatched on the tree.
func load(cmd *cobra.Command, args []string, onClick md.ClickFunc) (*document, error) {
	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	parseOpts, err := cfg.ParseOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	source, err := cmdutil.ReadSource(cmd, args)
	if err != nil {
		return nil, err
	}

	host := &vdom.Host{}
	root, err := cmdutil.Render[*vdom.Node](host, source, parseOpts, md.Props[*vdom.Node]{
		OnClick:        onClick,
		Components:     vdom.Components(host),
		Wikilinks:      cfg.Wikilinks,
		HardLineBreaks: cfg.HardLineBreaks,
	})
	if err != nil {
		return nil, err
	}
	return &document{source: source, root: root}, nil
}

// kind names a node by tag and first class, as in "span.math".
func kind(n *vdom.Node) string {
	if len(n.Classes) > 0 {
		return n.Tag + "." + n.Classes[0]
	}
	return n.Tag
}

// snippet returns the source of r on one line, shortened to width cells.
func (d *document) snippet(r md.SourceRange, width int) string {
	start := max(0, min(r.Start, len(d.source)))
	end := max(start, min(r.End, len(d.source)))
	text := strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(d.source[start:end])
	return view.Truncate(text, width)
}

func renderer(cmd *cobra.Command) (*view.Renderer, error) {
	output, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if err := view.ValidateFormat(output); err != nil {
		return nil, err
	}
	r := view.NewRenderer(view.Format(output), noColor)
	r.SetWriter(cmd.OutOrStdout())
	return r, nil
}
