package configcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/config"
	"github.com/open-cli-collective/mdview/internal/view"
	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/open-cli-collective/mdview/pkg/vdom"
)

// sample exercises every extension a configuration can enable.
const sample = "# Sample\n\n" +
	"Some *emphasis*, ~~strike~~ and $x^2$ math.[^1]\n\n" +
	"- [x] done\n\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
	"```go\nfmt.Println(\"ok\")\n```\n\n" +
	"<Note>inside</Note>\n\n" +
	"[^1]: A footnote.\n"

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Validate the configuration by rendering a sample",
		Long:  `Validate the current mdview configuration and render a sample document with it.`,
		Example: `  # Test configuration
  mdview config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runTest(w io.Writer, noColor bool, cfgs ...*config.Config) error {
	r := view.NewRenderer(view.FormatTable, noColor)
	r.SetWriter(w)

	var cfg *config.Config
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	} else {
		var err error
		cfg, err = config.LoadWithEnv(config.DefaultConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w (run 'mdview init' to configure)", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		r.Error("Invalid configuration: " + err.Error())
		fmt.Fprintln(w, "\nCheck your settings with: mdview config show")
		fmt.Fprintln(w, "Reconfigure with: mdview init")
		return fmt.Errorf("invalid config: %w", err)
	}
	r.Success("Configuration is valid")

	opts, err := cfg.ParseOptions()
	if err != nil {
		return err
	}

	var missing []string
	host := &vdom.Host{}
	_, err = md.RenderMarkdown[*vdom.Node](host, sample, md.Props[*vdom.Node]{
		ParseOptions:   &opts,
		HardLineBreaks: cfg.HardLineBreaks,
		Wikilinks:      cfg.Wikilinks,
		Theme:          cfg.Theme,
		OnMissingComponent: func(name string, _ md.SourceRange) {
			missing = append(missing, name)
		},
	})
	if err != nil {
		r.Error("Sample render failed: " + err.Error())
		return fmt.Errorf("sample render failed: %w", err)
	}

	r.Success("Sample document rendered")
	fmt.Fprintf(w, "\nExtensions: %v\n", opts.Names())
	if len(host.Stylesheets) > 0 {
		fmt.Fprintf(w, "Stylesheets: %d\n", len(host.Stylesheets))
	}
	if len(missing) > 0 {
		fmt.Fprintf(w, "Unregistered components: %v\n", missing)
	}

	return nil
}
