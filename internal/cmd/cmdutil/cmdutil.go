// Package cmdutil holds helpers shared by the mdview commands.
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/config"
	"github.com/open-cli-collective/mdview/pkg/md"
)

// ReadSource reads the markdown named by args[0], or stdin when args is empty
// or names "-".
func ReadSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// LoadConfig loads the file named by the --config flag, or the default path,
// with environment overrides applied.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Render parses source with opts and renders it through host. Parser warnings
// and unregistered components are logged; the parse itself is logged at debug
// level.
func Render[V any](host md.Host[V], source string, opts md.Options, props md.Props[V]) (V, error) {
	result := md.Parse(source, opts, props.Wikilinks)
	slog.Debug("parsed markdown",
		"extensions", opts.Names(),
		"wikilinks", props.Wikilinks,
		"hard_breaks", props.HardLineBreaks,
		"items", len(result.Items),
		"warnings", len(result.Warnings))

	for _, w := range result.Warnings {
		slog.Warn(w.Message, "range", w.Range.String())
	}
	if props.OnMissingComponent == nil {
		props.OnMissingComponent = func(name string, position md.SourceRange) {
			slog.Warn("unregistered component", "component", name, "range", position.String())
		}
	}
	return md.Render(host, result.Items, props)
}
