package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribeflow/scribeflow/model"
)

func TestDecide(t *testing.T) {
	cfg := DefaultConfig()
	major := []model.FeedbackItem{{Section: "body", Issue: "unsupported claim", Severity: model.SeverityMajor}}

	testCases := []struct {
		description string
		feedback    *model.Feedback
		iteration   int
		expected    Decision
	}{
		{
			description: "budget exhausted accepts regardless of feedback",
			feedback:    &model.Feedback{Quality: 2.0, Approval: model.NeedsRevision, Items: major},
			iteration:   2,
			expected:    Accept,
		},
		{
			description: "explicit approval accepts",
			feedback:    &model.Feedback{Quality: 5.0, Approval: model.Approved, Items: major},
			iteration:   0,
			expected:    Accept,
		},
		{
			description: "quality at threshold accepts",
			feedback:    &model.Feedback{Quality: 7.0, Approval: model.NeedsRevision, Items: major},
			iteration:   0,
			expected:    Accept,
		},
		{
			description: "major issue below threshold revises",
			feedback:    &model.Feedback{Quality: 6.9, Approval: model.NeedsRevision, Items: major},
			iteration:   0,
			expected:    Revise,
		},
		{
			description: "large quality gap revises without major items",
			feedback:    &model.Feedback{Quality: 6.0, Approval: model.NeedsRevision},
			iteration:   0,
			expected:    Revise,
		},
		{
			description: "small gap within margin accepts",
			feedback:    &model.Feedback{Quality: 6.6, Approval: model.NeedsRevision},
			iteration:   0,
			expected:    Accept,
		},
		{
			description: "unusable feedback abandons",
			feedback:    &model.Feedback{Quality: 12.0, Approval: model.NeedsRevision},
			iteration:   0,
			expected:    Abandon,
		},
	}
	for _, testCase := range testCases {
		decision, reason := Decide(testCase.feedback, testCase.iteration, cfg)
		assert.Equal(t, testCase.expected, decision, testCase.description)
		assert.NotEmpty(t, reason, testCase.description)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	feedback := &model.Feedback{
		Quality:  6.5,
		Approval: model.NeedsRevision,
		Items:    []model.FeedbackItem{{Severity: model.SeverityMajor, Issue: "x"}},
	}
	first, _ := Decide(feedback, 0, cfg)
	for i := 0; i < 100; i++ {
		decision, _ := Decide(feedback, 0, cfg)
		assert.Equal(t, first, decision)
	}
}

func TestDecideMarginIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	feedback := &model.Feedback{Quality: 6.6, Approval: model.NeedsRevision}

	decision, _ := Decide(feedback, 0, cfg)
	assert.Equal(t, Accept, decision)

	cfg.ReviseMargin = 0.2
	decision, _ = Decide(feedback, 0, cfg)
	assert.Equal(t, Revise, decision)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MaxIterations: 0, QualityThreshold: 7}.Validate())
	assert.Error(t, Config{MaxIterations: 3, QualityThreshold: 10.5}.Validate())
	assert.Error(t, Config{MaxIterations: 3, QualityThreshold: 7, ReviseMargin: -1}.Validate())
}
