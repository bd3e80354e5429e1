package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "basic paragraph",
			input:    "<p>Hello world</p>",
			expected: "Hello world",
		},
		{
			name:     "multiple paragraphs",
			input:    "<p>First paragraph.</p><p>Second paragraph.</p>",
			expected: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "h2 header",
			input:    "<h2>Subtitle</h2>",
			expected: "## Subtitle",
		},
		{
			name:     "bold text",
			input:    "<p>This is <strong>bold</strong> text</p>",
			expected: "This is **bold** text",
		},
		{
			name:     "ordered list",
			input:    "<ol><li>First</li><li>Second</li></ol>",
			expected: "1. First\n2. Second",
		},
		{
			name:     "inline code",
			input:    "<p>Use <code>code</code> here</p>",
			expected: "Use `code` here",
		},
		{
			name:     "link",
			input:    `<p><a href="https://go.dev">Go</a></p>`,
			expected: "[Go](https://go.dev)",
		},
		{
			name:     "source range attributes dropped",
			input:    `<p data-source-start="0" data-source-end="5"><span data-source-start="0" data-source-end="5">Hello</span></p>`,
			expected: "Hello",
		},
		{
			name:     "stylesheet links dropped",
			input:    `<link rel="stylesheet" href="https://cdn.example/katex.css"><p>Body</p>`,
			expected: "Body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFromHTMLWithOptions_Math(t *testing.T) {
	input := `<p>Euler: <span class="math math-inline">x+y</span></p>`

	t.Run("math kept as tex", func(t *testing.T) {
		result, err := FromHTMLWithOptions(input, ConvertOptions{KeepMath: true})
		require.NoError(t, err)
		assert.Contains(t, result, `$x+y$`)
	})

	t.Run("display math kept as tex", func(t *testing.T) {
		result, err := FromHTMLWithOptions(`<p>Energy <div class="math math-display">E=mc^2</div></p>`, ConvertOptions{KeepMath: true})
		require.NoError(t, err)
		assert.Contains(t, result, `$$E=mc^2$$`)
	})

	t.Run("math flattened to text", func(t *testing.T) {
		result, err := FromHTML(input)
		require.NoError(t, err)
		assert.Contains(t, result, "Euler:")
		assert.NotContains(t, result, "$")
	})
}

func TestFromHTML_Tables(t *testing.T) {
	input := `<table>
		<thead><tr><th>Header 1</th><th>Header 2</th></tr></thead>
		<tbody><tr><td>Cell 1</td><td>Cell 2</td></tr></tbody>
	</table>`

	result, err := FromHTML(input)
	require.NoError(t, err)
	for _, expected := range []string{"| Header 1", "| Header 2", "| Cell 1", "| Cell 2"} {
		assert.Contains(t, result, expected, "should contain: %s", expected)
	}
}

func TestFromHTML_TaskCheckboxes(t *testing.T) {
	input := `<ul><li><input type="checkbox" checked disabled>done</li><li><input type="checkbox" disabled>todo</li></ul>`

	result, err := FromHTML(input)
	require.NoError(t, err)
	assert.Contains(t, result, "done")
	assert.Contains(t, result, "todo")
	assert.Contains(t, result, "x]")
}
