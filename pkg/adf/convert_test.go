package adf

import (
	"encoding/json"
	"testing"

	"github.com/open-cli-collective/mdview/pkg/md"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMarkdown_Paragraph(t *testing.T) {
	input := "Hello world"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	assert.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)
	require.Len(t, doc.Content, 1)

	para := doc.Content[0]
	assert.Equal(t, "paragraph", para.Type)
	require.Len(t, para.Content, 1)
	assert.Equal(t, "text", para.Content[0].Type)
	assert.Equal(t, "Hello world", para.Content[0].Text)
}

func TestFromMarkdown_Headings(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		level    int
		text     string
	}{
		{"h1", "# Heading 1", 1, "Heading 1"},
		{"h2", "## Heading 2", 2, "Heading 2"},
		{"h3", "### Heading 3", 3, "Heading 3"},
		{"h4", "#### Heading 4", 4, "Heading 4"},
		{"h5", "##### Heading 5", 5, "Heading 5"},
		{"h6", "###### Heading 6", 6, "Heading 6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromMarkdown([]byte(tt.markdown))
			require.NoError(t, err)

			var doc Document
			err = json.Unmarshal([]byte(result), &doc)
			require.NoError(t, err)

			require.Len(t, doc.Content, 1)
			heading := doc.Content[0]
			assert.Equal(t, "heading", heading.Type)
			assert.EqualValues(t, tt.level, heading.Attrs["level"])
			require.Len(t, heading.Content, 1)
			assert.Equal(t, tt.text, heading.Content[0].Text)
		})
	}
}

func TestFromMarkdown_Formatting(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		mark     string
	}{
		{"bold", "**bold**", "strong"},
		{"italic", "*italic*", "em"},
		{"inline_code", "`code`", "code"},
		{"strikethrough", "~~strike~~", "strike"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromMarkdown([]byte(tt.markdown))
			require.NoError(t, err)

			var doc Document
			err = json.Unmarshal([]byte(result), &doc)
			require.NoError(t, err)

			require.Len(t, doc.Content, 1)
			para := doc.Content[0]
			assert.Equal(t, "paragraph", para.Type)

			// Find the text node with marks
			var foundMark bool
			for _, node := range para.Content {
				if len(node.Marks) > 0 {
					for _, mark := range node.Marks {
						if mark.Type == tt.mark {
							foundMark = true
							break
						}
					}
				}
			}
			assert.True(t, foundMark, "expected to find mark %s", tt.mark)
		})
	}
}

func TestFromMarkdown_Links(t *testing.T) {
	input := "[Example](https://example.com)"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]

	// Find the link
	var foundLink bool
	for _, node := range para.Content {
		for _, mark := range node.Marks {
			if mark.Type == "link" {
				foundLink = true
				assert.Equal(t, "https://example.com", mark.Attrs["href"])
				assert.Equal(t, "Example", node.Text)
			}
		}
	}
	assert.True(t, foundLink, "expected to find link mark")
}

func TestFromMarkdown_BulletList(t *testing.T) {
	input := "- Item one\n- Item two\n- Item three"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, "bulletList", list.Type)
	assert.Len(t, list.Content, 3)

	for i, item := range list.Content {
		assert.Equal(t, "listItem", item.Type)
		require.Len(t, item.Content, 1)
		para := item.Content[0]
		assert.Equal(t, "paragraph", para.Type)
		expected := []string{"Item one", "Item two", "Item three"}[i]
		require.Len(t, para.Content, 1)
		assert.Equal(t, expected, para.Content[0].Text)
	}
}

func TestFromMarkdown_OrderedList(t *testing.T) {
	input := "1. First\n2. Second\n3. Third"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, "orderedList", list.Type)
	assert.EqualValues(t, 1, list.Attrs["order"])
	assert.Len(t, list.Content, 3)
}

func TestFromMarkdown_CodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		language string
		code     string
	}{
		{
			name:     "without_language",
			markdown: "```\ncode here\n```",
			language: "",
			code:     "code here",
		},
		{
			name:     "with_language",
			markdown: "```python\nprint(\"hello\")\n```",
			language: "python",
			code:     "print(\"hello\")",
		},
		{
			name:     "go_multiline",
			markdown: "```go\nfunc main() {\n    fmt.Println(\"hello\")\n}\n```",
			language: "go",
			code:     "func main() {\n    fmt.Println(\"hello\")\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromMarkdown([]byte(tt.markdown))
			require.NoError(t, err)

			var doc Document
			err = json.Unmarshal([]byte(result), &doc)
			require.NoError(t, err)

			require.Len(t, doc.Content, 1)
			block := doc.Content[0]
			assert.Equal(t, "codeBlock", block.Type)

			if tt.language != "" {
				assert.Equal(t, tt.language, block.Attrs["language"])
			}

			require.Len(t, block.Content, 1)
			assert.Equal(t, tt.code, block.Content[0].Text)
		})
	}
}

func TestFromMarkdown_Blockquote(t *testing.T) {
	input := "> This is a quote"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	quote := doc.Content[0]
	assert.Equal(t, "blockquote", quote.Type)
	require.Len(t, quote.Content, 1)
	assert.Equal(t, "paragraph", quote.Content[0].Type)
}

func TestFromMarkdown_HorizontalRule(t *testing.T) {
	input := "Above\n\n---\n\nBelow"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	assert.Len(t, doc.Content, 3)
	assert.Equal(t, "paragraph", doc.Content[0].Type)
	assert.Equal(t, "rule", doc.Content[1].Type)
	assert.Equal(t, "paragraph", doc.Content[2].Type)
}

func TestFromMarkdown_Table(t *testing.T) {
	input := "| Header 1 | Header 2 |\n|----------|----------|\n| Cell 1   | Cell 2   |"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	table := doc.Content[0]
	assert.Equal(t, "table", table.Type)

	// Should have 2 rows (header + 1 data row)
	assert.Len(t, table.Content, 2)

	// First row should have tableHeader cells
	headerRow := table.Content[0]
	assert.Equal(t, "tableRow", headerRow.Type)
	assert.Len(t, headerRow.Content, 2)
	assert.Equal(t, "tableHeader", headerRow.Content[0].Type)

	// Second row should have tableCell cells
	dataRow := table.Content[1]
	assert.Equal(t, "tableRow", dataRow.Type)
	assert.Len(t, dataRow.Content, 2)
	assert.Equal(t, "tableCell", dataRow.Content[0].Type)
}

func TestFromMarkdown_EmptyInput(t *testing.T) {
	result, err := FromMarkdown([]byte(""))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	assert.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)
	assert.Empty(t, doc.Content)
}

func TestFromMarkdown_NestedList(t *testing.T) {
	input := "- Item one\n  - Nested one\n  - Nested two\n- Item two"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, "bulletList", list.Type)

	// First list item should contain a nested bulletList
	firstItem := list.Content[0]
	assert.Equal(t, "listItem", firstItem.Type)

	// Should have paragraph + nested list
	var foundNestedList bool
	for _, child := range firstItem.Content {
		if child.Type == "bulletList" {
			foundNestedList = true
			assert.Len(t, child.Content, 2) // Two nested items
		}
	}
	assert.True(t, foundNestedList, "expected nested bullet list")
}

func TestFromMarkdown_BoldAndItalicCombined(t *testing.T) {
	input := "***bold and italic***"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]

	// Find the text node with both marks
	var foundStrong, foundEm bool
	for _, node := range para.Content {
		for _, mark := range node.Marks {
			if mark.Type == "strong" {
				foundStrong = true
			}
			if mark.Type == "em" {
				foundEm = true
			}
		}
	}
	assert.True(t, foundStrong, "expected strong mark")
	assert.True(t, foundEm, "expected em mark")
}

func TestFromMarkdown_OutputIsValidJSON(t *testing.T) {
	// Test various inputs produce valid JSON
	inputs := []string{
		"# Simple heading",
		"Paragraph with **bold** and *italic*",
		"- Item 1\n- Item 2",
		"```go\ncode\n```",
		"| A | B |\n|---|---|\n| 1 | 2 |",
	}

	for _, input := range inputs {
		result, err := FromMarkdown([]byte(input))
		require.NoError(t, err)

		// Verify it's valid JSON
		var parsed map[string]interface{}
		err = json.Unmarshal([]byte(result), &parsed)
		require.NoError(t, err, "Output should be valid JSON for input: %s", input)

		// Verify basic structure
		assert.Equal(t, "doc", parsed["type"])
		assert.EqualValues(t, 1, parsed["version"])
	}
}

func TestFromMarkdown_Images_AltText(t *testing.T) {
	input := "![Alt text](https://example.com/image.png)"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	// Images should be converted to text with alt text
	require.Len(t, doc.Content, 1)
	para := doc.Content[0]
	assert.Equal(t, "paragraph", para.Type)
	require.Len(t, para.Content, 1)
	assert.Equal(t, "Alt text", para.Content[0].Text)
}

func TestFromMarkdown_WhitespaceInCodeBlock(t *testing.T) {
	// Code with leading whitespace should be preserved
	input := "```\n    indented code\n        more indented\n```"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	block := doc.Content[0]
	assert.Equal(t, "codeBlock", block.Type)
	require.Len(t, block.Content, 1)

	// Verify whitespace is preserved
	text := block.Content[0].Text
	assert.Contains(t, text, "    indented")
	assert.Contains(t, text, "        more indented")
}

func TestFromMarkdown_NestedBlockquote(t *testing.T) {
	input := "> Quote with **bold** text\n>\n> And a list:\n> - Item 1\n> - Item 2"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	quote := doc.Content[0]
	assert.Equal(t, "blockquote", quote.Type)

	// Should have nested content
	assert.True(t, len(quote.Content) > 0, "blockquote should have content")
}

func TestFromMarkdown_HardLineBreak(t *testing.T) {
	result, err := FromMarkdown([]byte("Line one\\\nLine two"))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(result), &doc))

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]
	require.Len(t, para.Content, 3)
	assert.Equal(t, "Line one", para.Content[0].Text)
	assert.Equal(t, "hardBreak", para.Content[1].Type)
	assert.Equal(t, "Line two", para.Content[2].Text)
}

func TestFromMarkdown_SoftBreakBecomesSpace(t *testing.T) {
	result, err := FromMarkdown([]byte("Line one\nLine two"))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(result), &doc))

	require.Len(t, doc.Content, 1)
	require.Len(t, doc.Content[0].Content, 1)
	assert.Equal(t, "Line one Line two", doc.Content[0].Content[0].Text)
}

func TestFromMarkdown_InlineCodePreservesContent(t *testing.T) {
	input := "Use `fmt.Println()` to print"
	result, err := FromMarkdown([]byte(input))
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal([]byte(result), &doc)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]

	// Find the code-marked text
	var foundCode bool
	for _, node := range para.Content {
		for _, mark := range node.Marks {
			if mark.Type == "code" {
				foundCode = true
				assert.Equal(t, "fmt.Println()", node.Text)
			}
		}
	}
	assert.True(t, foundCode, "expected code mark")
}

func TestFromMarkdown_TaskList(t *testing.T) {
	result, err := FromMarkdown([]byte("- [x] done\n- [ ] todo"))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(result), &doc))

	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	require.Len(t, list.Content, 2)
	assert.Equal(t, "[x] done", list.Content[0].Content[0].Content[0].Text)
	assert.Equal(t, "[ ] todo", list.Content[1].Content[0].Content[0].Text)
}

func TestFromMarkdown_OrderedListStart(t *testing.T) {
	result, err := FromMarkdown([]byte("5. five\n6. six"))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(result), &doc))

	require.Len(t, doc.Content, 1)
	assert.EqualValues(t, 5, doc.Content[0].Attrs["order"])
}

func TestFromMarkdown_RawHTMLDropped(t *testing.T) {
	result, err := FromMarkdown([]byte("<div>raw</div>\n\nafter"))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(result), &doc))

	require.Len(t, doc.Content, 1)
	assert.Equal(t, "after", doc.Content[0].Content[0].Text)
}

func TestConvert_MathAndStylesheets(t *testing.T) {
	host := &Host{}
	content, err := md.RenderMarkdown[View](host, "$a$ and $b$", md.Props[View]{})
	require.NoError(t, err)

	doc := NewDocument(content)
	require.Len(t, doc.Content, 1)
	para := doc.Content[0]
	require.Len(t, para.Content, 3)
	assert.Equal(t, "a", para.Content[0].Text)
	assert.Equal(t, "code", para.Content[0].Marks[0].Type)
	assert.Len(t, host.Stylesheets, 1)
}

func TestConvert_DisplayMath(t *testing.T) {
	doc, err := Convert("Energy $$E=mc^2$$\n", md.Props[View]{})
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]
	require.Len(t, para.Content, 2)
	assert.Equal(t, "E=mc^2", para.Content[1].Text)
	assert.Equal(t, "code", para.Content[1].Marks[0].Type)
}

func TestConvert_Component(t *testing.T) {
	props := md.Props[View]{
		Components: map[string]md.ComponentRenderer[View]{
			"Note": func(p md.ComponentProps[View]) View {
				title, _ := p.Attr("title")
				return View{{Type: "panel", Attrs: map[string]interface{}{"panelType": title}, Content: wrapBlocks(p.Children)}}
			},
		},
	}
	doc, err := Convert("<Note title=\"info\">\n\nInside\n\n</Note>\n", props)
	require.NoError(t, err)

	require.Len(t, doc.Content, 1)
	panel := doc.Content[0]
	assert.Equal(t, "panel", panel.Type)
	assert.Equal(t, "info", panel.Attrs["panelType"])
	require.Len(t, panel.Content, 1)
	assert.Equal(t, "Inside", panel.Content[0].Content[0].Text)
}

func TestComponents_Note(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"known kind", "<Note kind=\"warning\">\n\nCareful\n\n</Note>\n", "warning"},
		{"unknown kind", "<Note kind=\"fancy\">\n\nCareful\n\n</Note>\n", "info"},
		{"no kind", "<Note>\n\nCareful\n\n</Note>\n", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Convert(tt.source, md.Props[View]{Components: Components()})
			require.NoError(t, err)
			require.Len(t, doc.Content, 1)
			assert.Equal(t, "panel", doc.Content[0].Type)
			assert.Equal(t, tt.want, doc.Content[0].Attrs["panelType"])
		})
	}
}
