// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mdview configuration",
		Long:  `Commands for viewing, testing, and clearing mdview configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars are the environment variables LoadFromEnv reads.
var envVars = []string{
	"MDVIEW_THEME",
	"MDVIEW_HARD_LINE_BREAKS",
	"MDVIEW_WIKILINKS",
	"MDVIEW_OUTPUT_FORMAT",
	"MDVIEW_WIDTH",
}
