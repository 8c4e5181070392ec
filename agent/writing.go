package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/render"
)

// WritingExecutor produces drafts with an LLM: an initial draft from research
// or a revision of a prior draft against formatted critique feedback.
type WritingExecutor struct {
	LLM LLMClient
	// TargetWords hints the requested length; zero means the default 800.
	TargetWords int
}

const defaultTargetWords = 800

const writingSystemPrompt = `You are a professional blog writer. Write engaging, well-structured posts in markdown:
a single "# " title, an opening paragraph, several "## " body sections grounded in the supplied research, and a final "## Conclusion" section.
Respond with the markdown document only.`

func (e *WritingExecutor) Run(ctx context.Context, request *executor.WritingRequest) (*model.Draft, error) {
	if request == nil || request.Research == nil {
		return nil, executor.Fatalf("writing: research input is required")
	}
	raw, err := e.LLM.Complete(ctx, e.prompt(request))
	if err != nil {
		return nil, err
	}
	draft, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (e *WritingExecutor) prompt(request *executor.WritingRequest) Prompt {
	target := e.TargetWords
	if target <= 0 {
		target = defaultTargetWords
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nTarget length: about %d words.\n\nResearch summary: %s\n\nFindings:\n", request.Topic, target, request.Research.Summary)
	for i, finding := range request.Research.Findings {
		fmt.Fprintf(&b, "%d. [%s] %s (source: %s)\n", i+1, finding.Category, finding.Fact, finding.Source)
	}
	if request.IsRevision() {
		b.WriteString("\nRevise the following draft. Keep what works, fix what the feedback calls out.\n\n")
		b.WriteString("Current draft:\n")
		b.WriteString(render.Markdown(request.PriorDraft))
		b.WriteString("\nFeedback:\n")
		b.WriteString(FormatFeedback(request.Feedback))
		b.WriteString("\n")
	}
	return Prompt{System: writingSystemPrompt, User: b.String()}
}

// FormatFeedback folds critique feedback into revision instructions, grouped
// by severity. Minor items are capped at three so the writer focuses on what
// matters.
func FormatFeedback(feedback *model.Feedback) string {
	if feedback == nil {
		return ""
	}
	parts := []string{feedback.Summary}
	if major := feedback.ItemsBySeverity(model.SeverityMajor); len(major) > 0 {
		parts = append(parts, "\nCRITICAL ISSUES TO ADDRESS:")
		for _, item := range major {
			parts = append(parts, formatItem(item))
		}
	}
	if moderate := feedback.ItemsBySeverity(model.SeverityModerate); len(moderate) > 0 {
		parts = append(parts, "\nIMPORTANT IMPROVEMENTS:")
		for _, item := range moderate {
			parts = append(parts, formatItem(item))
		}
	}
	if minor := feedback.ItemsBySeverity(model.SeverityMinor); len(minor) > 0 {
		parts = append(parts, "\nMINOR ENHANCEMENTS:")
		if len(minor) > 3 {
			minor = minor[:3]
		}
		for _, item := range minor {
			parts = append(parts, formatItem(item))
		}
	}
	return strings.Join(parts, "\n")
}

func formatItem(item model.FeedbackItem) string {
	return fmt.Sprintf("- %s: %s -> %s", item.Section, item.Issue, item.Suggestion)
}

var titleExpr = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ParseDraft splits a markdown document into the draft structure: "# " title,
// text before the first "## " heading as introduction, "## " sections as
// body, with a trailing conclusion section recognised by its heading.
// An empty document is unusable output, not a transient failure.
func ParseDraft(raw string) (*model.Draft, error) {
	md := strings.TrimSpace(stripFence(raw))
	if md == "" {
		return nil, executor.Fatalf("writing: model returned empty document")
	}
	draft := &model.Draft{}
	if m := titleExpr.FindStringSubmatch(md); len(m) >= 2 {
		draft.Title = strings.TrimSpace(m[1])
		md = strings.Replace(md, m[0], "", 1)
	}

	blocks := regexp.MustCompile(`(?m)^##\s+`).Split(md, -1)
	draft.Introduction = strings.TrimSpace(blocks[0])
	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		heading, body := splitHeading(block)
		if strings.Contains(strings.ToLower(heading), "conclusion") {
			draft.Conclusion = body
			continue
		}
		draft.Sections = append(draft.Sections, "## "+block)
	}
	if draft.Conclusion == "" && len(draft.Sections) > 0 {
		last := draft.Sections[len(draft.Sections)-1]
		draft.Sections = draft.Sections[:len(draft.Sections)-1]
		_, draft.Conclusion = splitHeading(strings.TrimPrefix(last, "## "))
	}
	draft.WordCount = draft.Words()
	return draft, nil
}

func splitHeading(block string) (heading, body string) {
	if idx := strings.Index(block, "\n"); idx >= 0 {
		return strings.TrimSpace(block[:idx]), strings.TrimSpace(block[idx+1:])
	}
	return strings.TrimSpace(block), ""
}

func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```markdown")
		trimmed = strings.TrimPrefix(trimmed, "```md")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return trimmed
}
