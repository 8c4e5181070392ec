package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribeflow/scribeflow/model"
)

func TestMarkdown(t *testing.T) {
	draft := &model.Draft{
		Title:        "Sleep and Performance",
		Introduction: "Sleep matters.",
		Sections:     []string{"## Why\n\nBecause recovery.", "", "## Data\n\nNumbers."},
		Conclusion:   "Go to bed.",
	}
	md := Markdown(draft)
	assert.Equal(t, "# Sleep and Performance\n\nSleep matters.\n\n## Why\n\nBecause recovery.\n\n## Data\n\nNumbers.\n\nGo to bed.\n", md)

	assert.Equal(t, "", Markdown(nil))
	assert.Equal(t, "only intro\n\n", Markdown(&model.Draft{Introduction: "only intro"}))
}

func TestHTML(t *testing.T) {
	draft := &model.Draft{
		Title:        "Title",
		Introduction: "Some *emphasis* here.",
	}
	html, err := HTML(draft)
	assert.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
}
