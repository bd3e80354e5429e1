package md

import (
	"html"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ConvertOptions configures the HTML to markdown conversion.
type ConvertOptions struct {
	// KeepMath turns rendered math spans back into $...$ and $$...$$ instead
	// of keeping their TeX as plain text.
	KeepMath bool
}

var (
	sourceAttrPattern = regexp.MustCompile(`\s+data-source-(?:start|end)="[^"]*"`)
	stylesheetPattern = regexp.MustCompile(`<link\b[^>]*>`)
	mathSpanPattern   = regexp.MustCompile(`<(?:span|div) class="math math-(inline|display)"[^>]*>(.*?)</(?:span|div)>`)
	checkboxPattern   = regexp.MustCompile(`<input\b[^>]*type="checkbox"[^>]*>`)
)

// FromHTML converts an HTML document to markdown.
func FromHTML(doc string) (string, error) {
	return FromHTMLWithOptions(doc, ConvertOptions{})
}

// FromHTMLWithOptions converts an HTML document to markdown with
// configurable options. Output previously rendered by this package converts
// back to equivalent source.
func FromHTMLWithOptions(doc string, opts ConvertOptions) (string, error) {
	if doc == "" {
		return "", nil
	}

	doc = prepareRenderedHTML(doc, opts.KeepMath)

	markdown, err := htmltomarkdown.ConvertString(doc)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

// prepareRenderedHTML drops the rendering artifacts markdown has no syntax for.
func prepareRenderedHTML(doc string, keepMath bool) string {
	doc = sourceAttrPattern.ReplaceAllString(doc, "")
	doc = stylesheetPattern.ReplaceAllString(doc, "")

	doc = checkboxPattern.ReplaceAllStringFunc(doc, func(input string) string {
		if strings.Contains(input, "checked") {
			return "[x] "
		}
		return "[ ] "
	})

	if keepMath {
		doc = mathSpanPattern.ReplaceAllStringFunc(doc, func(span string) string {
			m := mathSpanPattern.FindStringSubmatch(span)
			delim := "$"
			if m[1] == "display" {
				delim = "$$"
			}
			return delim + html.UnescapeString(m[2]) + delim
		})
	}
	return doc
}
