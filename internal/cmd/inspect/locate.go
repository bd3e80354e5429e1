package inspect

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/open-cli-collective/mdview/pkg/vdom"
)

type locatedNode struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// NewCmdLocate creates the locate command.
func NewCmdLocate() *cobra.Command {
	var (
		offset int
		click  bool
	)

	cmd := &cobra.Command{
		Use:   "locate [file|-] --offset N",
		Short: "Find the rendered node that owns a source offset",
		Long: `Print the chain of rendered nodes whose source range contains the byte
offset, outermost first. With --click the innermost node is clicked and every
range the click reaches while bubbling is printed.`,
		Example: `  # Which node renders byte 42?
  mdview locate README.md --offset 42

  # Simulate a click there
  mdview locate README.md --offset 42 --click`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if offset < 0 {
				return fmt.Errorf("offset must not be negative")
			}
			r, err := renderer(cmd)
			if err != nil {
				return err
			}

			var clicks []md.SourceRange
			doc, err := load(cmd, args, func(ev md.MarkdownMouseEvent) {
				clicks = append(clicks, ev.Position)
			})
			if err != nil {
				return err
			}

			path := doc.root.Path(offset)
			if len(path) == 0 {
				return fmt.Errorf("no rendered node covers offset %d", offset)
			}

			if click {
				ev := vdom.ClickAt(doc.root, offset)
				var rows [][]string
				for _, c := range clicks {
					rows = append(rows, []string{c.String(), doc.snippet(c, 40)})
				}
				r.RenderTable([]string{"RANGE", "SOURCE"}, rows)
				if ev.DefaultPrevented {
					r.Warning("default action prevented")
				}
				return nil
			}

			nodes := make([]locatedNode, len(path))
			parts := make([]string, len(path))
			for i, n := range path {
				nodes[i] = locatedNode{Kind: kind(n), Start: n.Range.Start, End: n.Range.End}
				parts[i] = kind(n) + " " + n.Range.String()
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "json" {
				return r.RenderJSON(nodes)
			}
			inner := path[len(path)-1]
			r.RenderText(strings.Join(parts, " > "))
			r.RenderKeyValue("Source", doc.snippet(*inner.Range, 60))
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Byte offset into the markdown source")
	cmd.Flags().BoolVar(&click, "click", false, "Click the node and list the ranges the click reaches")
	_ = cmd.MarkFlagRequired("offset")

	return cmd
}
