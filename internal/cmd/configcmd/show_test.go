package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdview/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &config.Config{
		Theme:        "monokai",
		OutputFormat: "term",
		Width:        100,
		Extensions:   []string{"tables", "math"},
	}
	require.NoError(t, cfg.Save(filepath.Join(tmpDir, "mdview", "config.yml")))

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, true))

	out := buf.String()
	assert.Contains(t, out, "term  (source: config)")
	assert.Contains(t, out, "monokai  (source: config)")
	assert.Contains(t, out, "100  (source: config)")
	assert.Contains(t, out, "math, tables")
	assert.NotContains(t, out, "(file not found)")
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	require.NoError(t, (&config.Config{OutputFormat: "html"}).Save(filepath.Join(tmpDir, "mdview", "config.yml")))
	t.Setenv("MDVIEW_OUTPUT_FORMAT", "adf")

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, true))
	assert.Contains(t, buf.String(), "adf  (source: MDVIEW_OUTPUT_FORMAT)")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, true))

	out := buf.String()
	assert.Contains(t, out, "html  (source: default)")
	assert.Contains(t, out, "80  (source: default)")
	assert.Contains(t, out, "(file not found)")
}
