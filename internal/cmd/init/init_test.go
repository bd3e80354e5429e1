package init

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdview/internal/config"
)

func TestRunInit_NoPrompt(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	var buf bytes.Buffer
	err := runInit(&buf, &initOptions{format: "term", theme: "monokai", width: 100, noPrompt: true})
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, "mdview", "config.yml")
	assert.Contains(t, buf.String(), "Configuration saved to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "term", cfg.OutputFormat)
	assert.Equal(t, "monokai", cfg.Theme)
	assert.Equal(t, 100, cfg.Width)
}

func TestRunInit_InvalidValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := runInit(&bytes.Buffer{}, &initOptions{format: "pdf", noPrompt: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunInit_ExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "mdview", "config.yml")
	require.NoError(t, (&config.Config{Theme: "github"}).Save(configPath))

	t.Run("refuses without force", func(t *testing.T) {
		err := runInit(&bytes.Buffer{}, &initOptions{noPrompt: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("overwrites with force", func(t *testing.T) {
		err := runInit(&bytes.Buffer{}, &initOptions{format: "adf", noPrompt: true, force: true})
		require.NoError(t, err)

		cfg, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "adf", cfg.OutputFormat)
		assert.Empty(t, cfg.Theme)
	})
}

func TestRunInit_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	require.NoError(t, runInit(&bytes.Buffer{}, &initOptions{noPrompt: true}))

	info, err := os.Stat(filepath.Join(tmpDir, "mdview", "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestValidateTheme(t *testing.T) {
	assert.NoError(t, validateTheme(""))
	assert.NoError(t, validateTheme("monokai"))
	assert.Error(t, validateTheme("not-a-theme"))
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"72", 72, false},
		{"-1", 0, true},
		{"wide", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseWidth(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewForm_Defaults(t *testing.T) {
	cfg := &config.Config{}
	require.NotNil(t, newForm(cfg))
	assert.Equal(t, config.FormatHTML, cfg.OutputFormat)
	assert.Contains(t, cfg.Extensions, "tables")
}
