package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current mdview configuration with the source of each value.`,
		Example: `  # Show current config
  mdview config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	configPath := config.DefaultConfigPath()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(w, "%-12s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		fmt.Fprint(w, value)

		source := "config"
		switch {
		case os.Getenv(envVar) != "" && fileValue != value:
			source = envVar
		case fileErr != nil || fileValue != value:
			source = "default"
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	opts, err := cfg.ParseOptions()
	extensions := "(invalid)"
	if err == nil {
		extensions = strings.Join(opts.Names(), ", ")
	}

	printField("Format", cfg.Format(), fileCfg.OutputFormat, "MDVIEW_OUTPUT_FORMAT")
	printField("Theme", cfg.Theme, fileCfg.Theme, "MDVIEW_THEME")
	printField("Width", strconv.Itoa(cfg.WrapWidth()), widthString(fileCfg.Width), "MDVIEW_WIDTH")
	printField("Hard breaks", strconv.FormatBool(cfg.HardLineBreaks), strconv.FormatBool(fileCfg.HardLineBreaks), "MDVIEW_HARD_LINE_BREAKS")
	printField("Wikilinks", strconv.FormatBool(cfg.Wikilinks), strconv.FormatBool(fileCfg.Wikilinks), "MDVIEW_WIKILINKS")
	_, _ = bold.Fprintf(w, "%-12s", "Extensions:")
	fmt.Fprintln(w, extensions)

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

func widthString(width int) string {
	if width == 0 {
		return ""
	}
	return strconv.Itoa(width)
}
