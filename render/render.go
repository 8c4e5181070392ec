// Package render exports an accepted draft as a markdown document or HTML.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/scribeflow/scribeflow/model"
)

// Markdown composes the draft into a single markdown document: H1 title,
// introduction, body sections and conclusion separated by blank lines.
// Sections keep whatever inline formatting the writer produced.
func Markdown(draft *model.Draft) string {
	if draft == nil {
		return ""
	}
	var b strings.Builder
	if draft.Title != "" {
		b.WriteString("# ")
		b.WriteString(draft.Title)
		b.WriteString("\n\n")
	}
	if draft.Introduction != "" {
		b.WriteString(strings.TrimSpace(draft.Introduction))
		b.WriteString("\n\n")
	}
	for _, section := range draft.Sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		b.WriteString(section)
		b.WriteString("\n\n")
	}
	if draft.Conclusion != "" {
		b.WriteString(strings.TrimSpace(draft.Conclusion))
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the composed markdown document to HTML.
func HTML(draft *model.Draft) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(draft)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
