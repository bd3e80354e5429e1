// Package render provides the render command.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdview/internal/config"
	"github.com/open-cli-collective/mdview/internal/view"
	"github.com/open-cli-collective/mdview/pkg/adf"
	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/open-cli-collective/mdview/pkg/vdom"
)

type renderOptions struct {
	format       string
	hardBreaks   bool
	wikilinks    bool
	theme        string
	width        int
	fromHTML     bool
	frontmatter  string
	standalone   bool
	title        string
	sourceRanges bool
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render markdown",
		Long: `Render a markdown document as html, Atlassian Document Format, ANSI
terminal text, or the JSON view tree.

Flags override the configuration file and MDVIEW_* environment variables.`,
		Example: `  # Render to html
  mdview render README.md

  # Standalone html page with source ranges
  mdview render README.md --standalone --source-ranges

  # Read in the terminal
  mdview render README.md --format term --theme monokai

  # Convert an html page to ADF
  curl -s https://example.com | mdview render --from-html --format adf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			source, err := cmdutil.ReadSource(cmd, args)
			if err != nil {
				return err
			}
			if len(args) == 1 && args[0] != "-" && opts.title == "" {
				opts.title = args[0]
			}
			status := view.NewRenderer(view.FormatTable, false)
			status.SetWriter(cmd.ErrOrStderr())
			return runRender(cmd.OutOrStdout(), status, source, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: "+strings.Join(config.OutputFormats, ", "))
	cmd.Flags().BoolVar(&opts.hardBreaks, "hard-breaks", false, "Render every newline as a line break")
	cmd.Flags().BoolVar(&opts.wikilinks, "wikilinks", false, "Recognize [[wikilinks]]")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Chroma style for code blocks")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Wrap width for terminal output")
	cmd.Flags().BoolVar(&opts.fromHTML, "from-html", false, "Treat the input as html and convert it to markdown first")
	cmd.Flags().StringVar(&opts.frontmatter, "frontmatter", "", "Write the document frontmatter as JSON to this path")
	cmd.Flags().BoolVar(&opts.standalone, "standalone", false, "Wrap html output in a complete page")
	cmd.Flags().StringVar(&opts.title, "title", "", "Page title for --standalone (default: file name)")
	cmd.Flags().BoolVar(&opts.sourceRanges, "source-ranges", false, "Add data-source-start/end attributes to html output")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return md.ThemeNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// apply copies the flags the user set onto cfg.
func (o *renderOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.OutputFormat = o.format
	}
	if flags.Changed("hard-breaks") {
		cfg.HardLineBreaks = o.hardBreaks
	}
	if flags.Changed("wikilinks") {
		cfg.Wikilinks = o.wikilinks
	}
	if flags.Changed("theme") {
		cfg.Theme = o.theme
	}
	if flags.Changed("width") {
		cfg.Width = o.width
	}
}

// runRender writes the rendered document to w. Status messages go to status.
func runRender(w io.Writer, r *view.Renderer, source string, cfg *config.Config, opts *renderOptions) error {
	if opts.fromHTML {
		converted, err := md.FromHTMLWithOptions(source, md.ConvertOptions{KeepMath: true})
		if err != nil {
			return err
		}
		source = converted
	}

	parseOpts, err := cfg.ParseOptions()
	if err != nil {
		return err
	}

	var frontmatter md.Ref[string]

	if cfg.Format() == config.FormatADF {
		host := &adf.Host{}
		content, err := cmdutil.Render[adf.View](host, source, parseOpts, md.Props[adf.View]{
			Components:     adf.Components(),
			Wikilinks:      cfg.Wikilinks,
			HardLineBreaks: cfg.HardLineBreaks,
			Frontmatter:    &frontmatter,
		})
		if err != nil {
			return err
		}
		logRendered(len(host.Stylesheets), frontmatter)
		if err := writeFrontmatter(r, opts.frontmatter, frontmatter); err != nil {
			return err
		}
		return writeJSON(w, adf.NewDocument(content))
	}

	host := &vdom.Host{}
	props := md.Props[*vdom.Node]{
		Components:     vdom.Components(host),
		Wikilinks:      cfg.Wikilinks,
		HardLineBreaks: cfg.HardLineBreaks,
		Frontmatter:    &frontmatter,
	}
	if cfg.Format() == config.FormatHTML {
		props.Theme = cfg.Theme
	}

	root, err := cmdutil.Render[*vdom.Node](host, source, parseOpts, props)
	if err != nil {
		return err
	}
	logRendered(len(host.Stylesheets), frontmatter)
	if err := writeFrontmatter(r, opts.frontmatter, frontmatter); err != nil {
		return err
	}

	switch cfg.Format() {
	case config.FormatTerm:
		_, err := io.WriteString(w, view.Terminal(root, view.TerminalOptions{
			Width: cfg.WrapWidth(),
			Theme: cfg.Theme,
		}))
		return err
	case config.FormatJSON:
		return writeJSON(w, root.Children)
	}

	renderOpts := vdom.RenderOptions{SourceRanges: opts.sourceRanges}
	var out string
	if opts.standalone {
		out, err = host.Document(opts.title, root, renderOpts)
	} else {
		out, err = root.HTML(renderOpts)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeFrontmatter stores the decoded frontmatter as JSON at path. A document
// without frontmatter writes an empty object.
func writeFrontmatter(r *view.Renderer, path string, raw md.Ref[string]) error {
	if path == "" {
		return nil
	}

	fields := map[string]any{}
	if raw.IsSet {
		var err error
		fields, err = md.DecodeFrontmatter(raw.Value)
		if err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write frontmatter: %w", err)
	}
	r.Success("Frontmatter written to " + path)
	return nil
}

func logRendered(stylesheets int, frontmatter md.Ref[string]) {
	slog.Debug("rendered markdown", "stylesheets", stylesheets, "frontmatter", frontmatter.IsSet)
}

// Formats lists the accepted --format values, sorted.
func Formats() []string {
	formats := slices.Clone(config.OutputFormats)
	slices.Sort(formats)
	return formats
}
