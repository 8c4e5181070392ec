package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
)

const sampleCritiqueJSON = `{
  "quality": 6.5,
  "approval": "needs_revision",
  "summary": "Good structure, thin evidence.",
  "items": [
    {"section": "intro", "issue": "no hook", "suggestion": "lead with the statistic", "severity": "major"},
    {"section": "body", "issue": "typo", "suggestion": "fix spelling", "severity": "minor"}
  ]
}`

func TestParseFeedback(t *testing.T) {
	feedback, err := ParseFeedback(sampleCritiqueJSON)
	assert.NoError(t, err)
	assert.Equal(t, 6.5, feedback.Quality)
	assert.Equal(t, model.NeedsRevision, feedback.Approval)
	assert.Equal(t, "Good structure, thin evidence.", feedback.Summary)
	assert.Len(t, feedback.Items, 2)
	assert.True(t, feedback.HasSeverity(model.SeverityMajor))
	assert.Equal(t, "lead with the statistic", feedback.Items[0].Suggestion)
}

func TestParseFeedbackStripsCodeFence(t *testing.T) {
	feedback, err := ParseFeedback("```\n" + sampleCritiqueJSON + "\n```")
	assert.NoError(t, err)
	assert.Equal(t, 6.5, feedback.Quality)
}

func TestParseFeedbackRejectsMalformedOutput(t *testing.T) {
	testCases := []struct {
		description string
		raw         string
	}{
		{description: "not json", raw: "the draft is fine"},
		{description: "unknown approval", raw: `{"quality": 7, "approval": "maybe"}`},
		{description: "quality out of range", raw: `{"quality": 11, "approval": "approved"}`},
		{description: "unknown severity", raw: `{"quality": 7, "approval": "approved", "items": [{"severity": "catastrophic"}]}`},
	}
	for _, testCase := range testCases {
		_, err := ParseFeedback(testCase.raw)
		assert.Error(t, err, testCase.description)
		assert.True(t, executor.IsFatal(err), testCase.description)
	}
}

func TestCritiqueExecutorRun(t *testing.T) {
	llm := &MockLLM{Responses: []string{sampleCritiqueJSON}}
	critic := &CritiqueExecutor{LLM: llm}
	draft := &model.Draft{Title: "Sleep", Introduction: "intro", Conclusion: "end"}
	research := &model.ResearchResult{
		Findings: []model.Finding{{Fact: "8 hours improves recall", Source: "https://example.org"}},
	}

	feedback, err := critic.Run(context.Background(), draft, research)
	assert.NoError(t, err)
	assert.Equal(t, model.NeedsRevision, feedback.Approval)

	prompt := llm.Prompts[0]
	assert.Contains(t, prompt.User, "# Sleep")
	assert.Contains(t, prompt.User, "8 hours improves recall")
	assert.Contains(t, prompt.System, "JSON only")
}

func TestCritiqueExecutorRequiresDraft(t *testing.T) {
	critic := &CritiqueExecutor{LLM: &MockLLM{}}
	_, err := critic.Run(context.Background(), nil, nil)
	assert.True(t, executor.IsFatal(err))
}
