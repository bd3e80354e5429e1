// Package root provides the root command for the mdview CLI.
package root

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/cmd/completion"
	"github.com/open-cli-collective/mdview/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/mdview/internal/cmd/init"
	"github.com/open-cli-collective/mdview/internal/cmd/inspect"
	"github.com/open-cli-collective/mdview/internal/cmd/render"
	"github.com/open-cli-collective/mdview/internal/version"
)

// NewCmdRoot creates the root command for mdview.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdview",
		Short: "Render markdown with click-to-source mapping",
		Long: `mdview renders markdown into html, Atlassian Document Format or terminal
text, keeping every rendered node mapped to the bytes of source it came from.

Get started by running: mdview init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor {
				color.NoColor = true
			}
			slog.SetDefault(newLogger(cmd, verbose))
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/mdview/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "tabular output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")

	cmd.SetVersionTemplate("mdview version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(inspect.NewCmdRanges())
	cmd.AddCommand(inspect.NewCmdLocate())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// newLogger logs to the command's stderr, at debug level when verbose.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
