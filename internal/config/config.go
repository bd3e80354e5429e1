// Package config provides configuration management for mdview.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/mdview/pkg/md"
)

// Output formats understood by the render command.
const (
	FormatHTML = "html"
	FormatADF  = "adf"
	FormatTerm = "term"
	FormatJSON = "json"
)

// OutputFormats lists the render formats in the order help text shows them.
var OutputFormats = []string{FormatHTML, FormatADF, FormatTerm, FormatJSON}

// DefaultWidth is the terminal wrap width used when none is configured.
const DefaultWidth = 80

// Config holds the mdview configuration.
type Config struct {
	Theme          string   `yaml:"theme,omitempty"`
	HardLineBreaks bool     `yaml:"hard_line_breaks,omitempty"`
	Wikilinks      bool     `yaml:"wikilinks,omitempty"`
	OutputFormat   string   `yaml:"output_format,omitempty"`
	Width          int      `yaml:"width,omitempty"`
	Extensions     []string `yaml:"extensions,omitempty"`
}

// Validate checks that every configured value is one mdview understands.
// Empty values are valid and fall back to defaults.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("output_format must be one of %s", strings.Join(OutputFormats, ", "))
	}
	if c.Theme != "" && !md.KnownTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Width < 0 {
		return errors.New("width must not be negative")
	}
	if _, err := md.ParseOptionNames(c.Extensions); err != nil {
		return fmt.Errorf("extensions: %w", err)
	}
	return nil
}

// ParseOptions converts the configured extension names to parser options.
// No extensions configured means all of them.
func (c *Config) ParseOptions() (md.Options, error) {
	return md.ParseOptionNames(c.Extensions)
}

// Format returns the configured output format, defaulting to html.
func (c *Config) Format() string {
	if c.OutputFormat == "" {
		return FormatHTML
	}
	return c.OutputFormat
}

// WrapWidth returns the configured width, defaulting to DefaultWidth.
func (c *Config) WrapWidth() int {
	if c.Width <= 0 {
		return DefaultWidth
	}
	return c.Width
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Boolean and numeric values that fail to parse are ignored.
func (c *Config) LoadFromEnv() {
	if theme := os.Getenv("MDVIEW_THEME"); theme != "" {
		c.Theme = theme
	}
	if v, ok := envBool("MDVIEW_HARD_LINE_BREAKS"); ok {
		c.HardLineBreaks = v
	}
	if v, ok := envBool("MDVIEW_WIKILINKS"); ok {
		c.Wikilinks = v
	}
	if format := os.Getenv("MDVIEW_OUTPUT_FORMAT"); format != "" {
		c.OutputFormat = format
	}
	if raw := os.Getenv("MDVIEW_WIDTH"); raw != "" {
		if width, err := strconv.Atoi(raw); err == nil {
			c.Width = width
		}
	}
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mdview", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mdview", "config.yml")
	}

	return filepath.Join(home, ".config", "mdview", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// A missing file means defaults.
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
