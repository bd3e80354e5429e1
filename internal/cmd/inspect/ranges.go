package inspect

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/pkg/vdom"
)

// NewCmdRanges creates the ranges command.
func NewCmdRanges() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "ranges [file|-]",
		Short: "List rendered nodes with their source ranges",
		Long: `List every rendered node that maps back to markdown source, in document
order, with its byte range and the source text it covers.`,
		Example: `  # Table of ranges
  mdview ranges README.md

  # As JSON
  mdview ranges README.md -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd)
			if err != nil {
				return err
			}
			doc, err := load(cmd, args, nil)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, n := range doc.root.Find(func(n *vdom.Node) bool { return n.Range != nil }) {
				rows = append(rows, []string{kind(n), n.Range.String(), doc.snippet(*n.Range, width)})
			}
			r.RenderTable([]string{"KIND", "RANGE", "SOURCE"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "max-width", 40, "Shorten source text to this many columns")

	return cmd
}
