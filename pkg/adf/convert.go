package adf

import (
	"encoding/json"

	"github.com/open-cli-collective/mdview/pkg/md"
)

// FromMarkdown converts markdown content to Atlassian Document Format (ADF) JSON.
// The returned string is a JSON-encoded ADF document.
func FromMarkdown(markdown []byte) (string, error) {
	doc, err := Convert(string(markdown), md.Props[View]{})
	if err != nil {
		return "", err
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// Convert renders markdown into an ADF document using props.
func Convert(markdown string, props md.Props[View]) (*Document, error) {
	if markdown == "" {
		return NewDocument(nil), nil
	}

	content, err := md.RenderMarkdown[View](&Host{}, markdown, props)
	if err != nil {
		return nil, err
	}
	return NewDocument(content), nil
}
