package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	results []SearchResult
	err     error
	queries []string
	limits  []int
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	s.queries = append(s.queries, query)
	s.limits = append(s.limits, limit)
	return s.results, s.err
}

func TestResearchExecutorRun(t *testing.T) {
	searcher := &stubSearcher{results: []SearchResult{
		{Title: "Sleep study", URL: "https://example.org/a", Content: "A 2023 trial found 30% faster recall.", Score: 0.92},
		{Title: "Expert view", URL: "https://example.org/b", Content: "According to Dr. Lee, sleep debt compounds.", Score: 1.4},
		{Title: "Empty", URL: "https://example.org/c", Content: "   "},
	}}
	llm := &MockLLM{Responses: []string{"Sleep strongly improves recall and reaction time."}}
	research := &ResearchExecutor{Search: searcher, LLM: llm, MaxResults: 3}

	result, err := research.Run(context.Background(), "sleep and memory")
	assert.NoError(t, err)
	assert.Equal(t, "sleep and memory", result.Topic)
	assert.Equal(t, []string{"sleep and memory"}, searcher.queries)
	assert.Equal(t, []int{3}, searcher.limits)

	// The blank hit is dropped; scores are clamped into [0,1].
	assert.Len(t, result.Findings, 2)
	assert.Equal(t, 0.92, result.Findings[0].Relevance)
	assert.Equal(t, 1.0, result.Findings[1].Relevance)
	assert.Equal(t, "statistic", result.Findings[0].Category)
	assert.Equal(t, "expert_opinion", result.Findings[1].Category)

	assert.Equal(t, "Sleep strongly improves recall and reaction time.", result.Summary)
	assert.Equal(t, 0.7, result.Confidence)
	assert.NoError(t, result.Validate())
}

func TestResearchExecutorSummaryDegradesToSnippets(t *testing.T) {
	searcher := &stubSearcher{results: []SearchResult{
		{URL: "https://example.org/a", Content: "First insight here. More detail after.", Score: 0.5},
	}}
	llm := &MockLLM{Err: errors.New("model offline")}
	research := &ResearchExecutor{Search: searcher, LLM: llm}

	result, err := research.Run(context.Background(), "topic")
	assert.NoError(t, err, "summary failure never fails the stage")
	assert.Equal(t, "First insight here.", result.Summary)
}

func TestResearchExecutorWithoutLLM(t *testing.T) {
	searcher := &stubSearcher{results: []SearchResult{
		{URL: "https://example.org/a", Content: "Only fact.", Score: 0.5},
	}}
	research := &ResearchExecutor{Search: searcher}

	result, err := research.Run(context.Background(), "topic")
	assert.NoError(t, err)
	assert.Equal(t, "Only fact.", result.Summary)
}

func TestResearchExecutorEmptyResults(t *testing.T) {
	research := &ResearchExecutor{Search: &stubSearcher{}}
	result, err := research.Run(context.Background(), "obscure topic")
	assert.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Equal(t, 0.2, result.Confidence)
	assert.Equal(t, "", result.Summary)
}

func TestResearchExecutorPropagatesSearchError(t *testing.T) {
	research := &ResearchExecutor{Search: &stubSearcher{err: errors.New("quota exceeded")}}
	_, err := research.Run(context.Background(), "topic")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "statistic", categorize("retention improved by 30%"))
	assert.Equal(t, "study", categorize("a randomized trial showed improvement"))
	assert.Equal(t, "expert_opinion", categorize("according to the lead author"))
	assert.Equal(t, "general", categorize("sleep is good"))
}

func TestConfidenceGrowth(t *testing.T) {
	findings := func(n int) []SearchResult {
		out := make([]SearchResult, n)
		for i := range out {
			out[i] = SearchResult{URL: "u", Content: "fact", Score: 0.5}
		}
		return out
	}
	for _, testCase := range []struct {
		hits     int
		expected float64
	}{{1, 0.6}, {3, 0.8}, {4, 0.9}, {10, 0.9}} {
		research := &ResearchExecutor{Search: &stubSearcher{results: findings(testCase.hits)}, MaxResults: 10}
		result, err := research.Run(context.Background(), "t")
		assert.NoError(t, err)
		assert.InDelta(t, testCase.expected, result.Confidence, 1e-9, "hits=%d", testCase.hits)
	}
}
