package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/render"
)

// CritiqueExecutor reviews a draft against the research it came from and
// returns structured feedback. Malformed model output is a fatal stage
// failure; the engine does not retry it.
type CritiqueExecutor struct {
	LLM LLMClient
}

const critiqueSystemPrompt = `You are an exacting editor. Review the draft for clarity, structure and factual grounding in the supplied research.
Respond with JSON only, no prose, in this shape:
{"quality": 0-10, "approval": "approved"|"needs_revision", "summary": "...", "items": [{"section": "...", "issue": "...", "suggestion": "...", "severity": "minor"|"moderate"|"major"}]}`

func (e *CritiqueExecutor) Run(ctx context.Context, draft *model.Draft, research *model.ResearchResult) (*model.Feedback, error) {
	if draft == nil {
		return nil, executor.Fatalf("critique: draft is required")
	}
	var b strings.Builder
	b.WriteString("Draft:\n")
	b.WriteString(render.Markdown(draft))
	if research != nil {
		b.WriteString("\nResearch findings for fact-checking:\n")
		for i, finding := range research.Findings {
			fmt.Fprintf(&b, "%d. %s (source: %s)\n", i+1, finding.Fact, finding.Source)
		}
	}
	raw, err := e.LLM.Complete(ctx, Prompt{System: critiqueSystemPrompt, User: b.String()})
	if err != nil {
		return nil, err
	}
	return ParseFeedback(raw)
}

type critiquePayload struct {
	Quality  float64 `json:"quality"`
	Approval string  `json:"approval"`
	Summary  string  `json:"summary"`
	Items    []struct {
		Section    string `json:"section"`
		Issue      string `json:"issue"`
		Suggestion string `json:"suggestion"`
		Severity   string `json:"severity"`
	} `json:"items"`
}

// ParseFeedback decodes the critique JSON into the feedback model,
// validating score ranges and severities.
func ParseFeedback(raw string) (*model.Feedback, error) {
	payload := &critiquePayload{}
	if err := json.Unmarshal([]byte(stripFence(raw)), payload); err != nil {
		return nil, executor.NewFatalError(fmt.Errorf("critique: malformed response: %w", err))
	}
	feedback := &model.Feedback{
		Quality:  payload.Quality,
		Approval: model.Approval(payload.Approval),
		Summary:  payload.Summary,
	}
	if feedback.Approval != model.Approved && feedback.Approval != model.NeedsRevision {
		return nil, executor.Fatalf("critique: unknown approval status %q", payload.Approval)
	}
	for _, item := range payload.Items {
		feedback.Items = append(feedback.Items, model.FeedbackItem{
			Section:    item.Section,
			Issue:      item.Issue,
			Suggestion: item.Suggestion,
			Severity:   model.Severity(item.Severity),
		})
	}
	if err := feedback.Validate(); err != nil {
		return nil, executor.NewFatalError(fmt.Errorf("critique: %w", err))
	}
	return feedback, nil
}
