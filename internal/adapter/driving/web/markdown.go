package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	mdRenderer    goldmark.Markdown
	ideaSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
	)

	// Ideas are shown inline next to a radio button: block elements
	// (paragraphs, list markers, headings) are stripped, emphasis is kept.
	ideaSanitizer = bluemonday.NewPolicy()
	ideaSanitizer.AllowElements("strong", "em", "del", "code")
}

// RenderIdea converts one idea line, which models often decorate with
// markdown emphasis or list markers, to sanitized inline HTML.
// Returns empty string for empty input.
func RenderIdea(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return ideaSanitizer.Sanitize(src)
	}

	return strings.TrimSpace(ideaSanitizer.Sanitize(buf.String()))
}
