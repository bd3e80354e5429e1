// Package init provides the init command for mdview.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdview/internal/config"
	"github.com/open-cli-collective/mdview/pkg/md"
)

type initOptions struct {
	format   string
	theme    string
	width    int
	noPrompt bool
	force    bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mdview configuration",
		Long: `Initialize mdview with your rendering preferences.

This command will guide you through choosing an output format, a code
highlighting theme and the markdown extensions to enable. The configuration
will be saved to ~/.config/mdview/config.yml.`,
		Example: `  # Interactive setup
  mdview init

  # Non-interactive setup
  mdview init --no-prompt --format term --theme monokai`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Default output format: html, adf, term, json")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Code highlighting theme (e.g., monokai)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Terminal wrap width")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Save the flag values without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(w io.Writer, opts *initOptions) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		OutputFormat: opts.format,
		Theme:        opts.theme,
		Width:        opts.width,
	}

	if !opts.noPrompt {
		if err := newForm(cfg).Run(); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "Configuration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  mdview render README.md")
	fmt.Fprintln(w, "  mdview ranges README.md")

	return nil
}

// newForm builds the interactive form writing into cfg.
func newForm(cfg *config.Config) *huh.Form {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = config.FormatHTML
	}
	widthText := ""
	if cfg.Width > 0 {
		widthText = strconv.Itoa(cfg.Width)
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = md.OptionsAll.Names()
	}

	formats := make([]huh.Option[string], 0, len(config.OutputFormats))
	for _, f := range config.OutputFormats {
		formats = append(formats, huh.NewOption(f, f))
	}

	extensions := make([]huh.Option[string], 0)
	for _, name := range md.OptionsAll.Names() {
		extensions = append(extensions, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("Default format for mdview render").
				Options(formats...).
				Value(&cfg.OutputFormat),

			huh.NewInput().
				Title("Theme (optional)").
				Description("Chroma style for code blocks; empty disables highlighting").
				Placeholder("monokai").
				Value(&cfg.Theme).
				Validate(validateTheme),

			huh.NewInput().
				Title("Width (optional)").
				Description("Wrap column for terminal output").
				Placeholder(strconv.Itoa(config.DefaultWidth)).
				Value(&widthText).
				Validate(func(s string) error {
					width, err := parseWidth(s)
					if err != nil {
						return err
					}
					cfg.Width = width
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Extensions").
				Options(extensions...).
				Value(&cfg.Extensions),

			huh.NewConfirm().
				Title("Treat every newline as a hard break?").
				Value(&cfg.HardLineBreaks),

			huh.NewConfirm().
				Title("Enable [[wikilinks]]?").
				Value(&cfg.Wikilinks),
		),
	)
}

func validateTheme(s string) error {
	if s != "" && !md.KnownTheme(s) {
		return fmt.Errorf("unknown theme %q", s)
	}
	return nil
}

func parseWidth(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	width, err := strconv.Atoi(s)
	if err != nil || width < 0 {
		return 0, fmt.Errorf("width must be a positive number")
	}
	return width, nil
}
