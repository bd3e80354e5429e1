package configcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/config"
	"github.com/open-cli-collective/mdview/internal/view"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the mdview configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  mdview config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runClear(w io.Writer, noColor bool) error {
	r := view.NewRenderer(view.FormatTable, noColor)
	r.SetWriter(w)

	configPath := config.DefaultConfigPath()

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	if os.IsNotExist(err) {
		r.Success("No config file to remove")
	} else {
		r.Success("Configuration cleared from " + configPath)
	}

	var activeVars []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = color.New(color.Faint).Fprintf(w, "\nNote: Environment variables will still be used: %v\n", activeVars)
	}

	return nil
}
