package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/scribeflow/scribeflow/model"
)

// ResearchExecutor gathers findings via a search backend and, when an LLM is
// configured, synthesises a summary of the key insights.
type ResearchExecutor struct {
	Search     Searcher
	LLM        LLMClient
	MaxResults int
}

const defaultMaxResults = 5

func (e *ResearchExecutor) Run(ctx context.Context, topic string) (*model.ResearchResult, error) {
	limit := e.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}
	hits, err := e.Search.Search(ctx, topic, limit)
	if err != nil {
		return nil, err
	}

	findings := make([]model.Finding, 0, len(hits))
	for _, hit := range hits {
		fact := strings.TrimSpace(hit.Content)
		if fact == "" {
			continue
		}
		findings = append(findings, model.Finding{
			Fact:      fact,
			Source:    hit.URL,
			Relevance: clamp01(hit.Score),
			Category:  categorize(hit.Title + " " + fact),
		})
	}

	summary, err := e.summarize(ctx, topic, findings)
	if err != nil {
		// Summary degradation is not worth failing the research stage.
		log.Printf("research: summary degraded for %q: %v", topic, err)
		summary = snippetSummary(findings)
	}

	return &model.ResearchResult{
		Topic:      topic,
		Findings:   findings,
		Summary:    summary,
		Confidence: confidence(findings),
	}, nil
}

func (e *ResearchExecutor) summarize(ctx context.Context, topic string, findings []model.Finding) (string, error) {
	if e.LLM == nil || len(findings) == 0 {
		return snippetSummary(findings), nil
	}
	var b strings.Builder
	for i, finding := range findings {
		fmt.Fprintf(&b, "%d. %s (source: %s)\n", i+1, finding.Fact, finding.Source)
	}
	return e.LLM.Complete(ctx, Prompt{
		System: "You are a research analyst. Summarise the key insights from the findings in 2-3 sentences. Respond with the summary only.",
		User:   fmt.Sprintf("Topic: %s\n\nFindings:\n%s", topic, b.String()),
	})
}

func snippetSummary(findings []model.Finding) string {
	if len(findings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(findings))
	for _, finding := range findings {
		parts = append(parts, firstSentence(finding.Fact))
	}
	return strings.Join(parts, " ")
}

func firstSentence(text string) string {
	if idx := strings.IndexAny(text, ".!?"); idx > 0 && idx < len(text)-1 {
		return text[:idx+1]
	}
	return text
}

// categorize assigns a coarse tag used by the critique stage to weigh
// evidence: statistic, study or expert_opinion, defaulting to general.
func categorize(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.ContainsAny(text, "%") || containsDigit(lower):
		return "statistic"
	case strings.Contains(lower, "study") || strings.Contains(lower, "research") || strings.Contains(lower, "trial"):
		return "study"
	case strings.Contains(lower, "expert") || strings.Contains(lower, "according to"):
		return "expert_opinion"
	}
	return "general"
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// confidence grows with the number of usable findings, capped at 0.9.
func confidence(findings []model.Finding) float64 {
	if len(findings) == 0 {
		return 0.2
	}
	c := 0.5 + 0.1*float64(len(findings))
	if c > 0.9 {
		c = 0.9
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
