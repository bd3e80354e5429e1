// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// shell describes one completion target.
type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  # Load in current session
  source <(mdview completion bash)

  # Install permanently (Linux)
  mdview completion bash | sudo tee /etc/bash_completion.d/mdview > /dev/null

  # Install permanently (macOS with Homebrew)
  mdview completion bash > $(brew --prefix)/etc/bash_completion.d/mdview`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	},
	{
		name: "zsh",
		install: `  # Enable completion once, if not already done
  echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Install
  mdview completion zsh > "${fpath[1]}/_mdview"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		install: `  # Load in current session
  mdview completion fish | source

  # Install permanently
  mdview completion fish > ~/.config/fish/completions/mdview.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		install: `  # Load in current session
  mdview completion powershell | Out-String | Invoke-Expression

  # Add the line above to your PowerShell profile to load it every session`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mdview.

These scripts enable tab-completion for commands, flags, and arguments,
including --format and --theme values. See each sub-command's help for
installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newShellCmd(s))
	}

	return cmd
}

func newShellCmd(s shell) *cobra.Command {
	return &cobra.Command{
		Use:                   s.name,
		Short:                 fmt.Sprintf("Generate %s completion script", s.name),
		Long:                  fmt.Sprintf("Generate %s completion script for mdview.", s.name),
		Example:               s.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// Shells returns the supported shell names.
func Shells() []string {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = s.name
	}
	return names
}
