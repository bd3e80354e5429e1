package md

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter finds a leading YAML block delimited by "---" lines.
// payload is the YAML between the delimiters and block covers both delimiter
// lines. ok is false when the source does not open with a delimiter or the
// closing delimiter is missing.
func splitFrontmatter(src []byte) (payload SourceRange, block SourceRange, ok bool) {
	nl := []byte("\n")
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		nl = []byte("\r\n")
	}

	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(src, open) {
		return payload, block, false
	}
	start := len(open)

	// Empty frontmatter: the closing delimiter follows immediately.
	if bytes.HasPrefix(src[start:], []byte("---")) && isDelimiterEnd(src, start+3) {
		end := lineEnd(src, start)
		return SourceRange{Start: start, End: start}, SourceRange{Start: 0, End: end}, true
	}

	closing := append(append([]byte{}, nl...), "---"...)
	for from := start; ; {
		idx := bytes.Index(src[from:], closing)
		if idx < 0 {
			return payload, block, false
		}
		delim := from + idx + len(nl)
		if isDelimiterEnd(src, delim+3) {
			return SourceRange{Start: start, End: delim}, SourceRange{Start: 0, End: lineEnd(src, delim)}, true
		}
		from = delim
	}
}

// isDelimiterEnd reports whether a "---" line ends at pos.
func isDelimiterEnd(src []byte, pos int) bool {
	for ; pos < len(src); pos++ {
		switch src[pos] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// maskRange blanks a region of the source while keeping newlines, so the
// markdown parser sees empty lines and every offset after it stays valid.
func maskRange(src []byte, r SourceRange) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for i := r.Start; i < r.End && i < len(out); i++ {
		if out[i] != '\n' {
			out[i] = ' '
		}
	}
	return out
}

// DecodeFrontmatter parses a raw YAML frontmatter payload into a map.
func DecodeFrontmatter(raw string) (map[string]any, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
