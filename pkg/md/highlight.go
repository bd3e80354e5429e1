package md

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightFormatter emits inline styles and leaves the <pre> wrapper to the host.
var highlightFormatter = html.New(
	html.WithClasses(false),
	html.PreventSurroundingPre(true),
)

// Highlight renders code as html using the named chroma style. Unknown
// languages fall back to plain text; an unknown theme is an error.
func Highlight(code, lang, theme string) (string, error) {
	style, ok := styles.Registry[strings.ToLower(theme)]
	if !ok {
		return "", fmt.Errorf("unknown theme %q", theme)
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s code: %w", lang, err)
	}

	var sb strings.Builder
	if err := highlightFormatter.Format(&sb, style, iterator); err != nil {
		return "", fmt.Errorf("failed to format code: %w", err)
	}
	return sb.String(), nil
}

// HighlightTerminal renders code with 256-color ANSI escapes using the named
// chroma style.
func HighlightTerminal(code, lang, theme string) (string, error) {
	style, ok := styles.Registry[strings.ToLower(theme)]
	if !ok {
		return "", fmt.Errorf("unknown theme %q", theme)
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s code: %w", lang, err)
	}

	var sb strings.Builder
	if err := formatters.TTY256.Format(&sb, style, iterator); err != nil {
		return "", fmt.Errorf("failed to format code: %w", err)
	}
	return sb.String(), nil
}

// ThemeNames lists the available highlighting themes.
func ThemeNames() []string {
	return styles.Names()
}

// KnownTheme reports whether name is a highlighting theme.
func KnownTheme(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}
