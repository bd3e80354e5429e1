package configcmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdview/internal/config"
)

func TestRunTest_Success(t *testing.T) {
	var buf bytes.Buffer
	err := runTest(&buf, true, &config.Config{Theme: "monokai"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ Configuration is valid")
	assert.Contains(t, out, "✓ Sample document rendered")
	assert.Contains(t, out, "Stylesheets: 1")
	assert.Contains(t, out, "Unregistered components: [Note]")
}

func TestRunTest_RestrictedExtensions(t *testing.T) {
	var buf bytes.Buffer
	err := runTest(&buf, true, &config.Config{Extensions: []string{"tables"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Extensions: [tables]")
	assert.NotContains(t, out, "Stylesheets")
	assert.NotContains(t, out, "Unregistered components")
}

func TestRunTest_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *config.Config
		errMsg string
	}{
		{"unknown theme", &config.Config{Theme: "nope"}, "unknown theme"},
		{"unknown format", &config.Config{OutputFormat: "pdf"}, "output_format"},
		{"unknown extension", &config.Config{Extensions: []string{"emoji"}}, "unknown extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runTest(&buf, true, tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Contains(t, buf.String(), "✗ Invalid configuration")
		})
	}
}

func TestRunTest_LoadsDefaultPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runTest(&buf, true))
}
