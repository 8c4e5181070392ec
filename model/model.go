package model

import (
	"fmt"
	"strings"
)

// Finding is a single research fact with source attribution.
type Finding struct {
	Fact      string  `json:"fact" yaml:"fact"`
	Source    string  `json:"source,omitempty" yaml:"source,omitempty"`
	Relevance float64 `json:"relevance" yaml:"relevance"`
	Category  string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// ResearchResult is the structured output of the research stage. Once the
// coordinator receives it the value is read-only; writing and critique stages
// get it by reference.
type ResearchResult struct {
	Topic      string    `json:"topic" yaml:"topic"`
	Findings   []Finding `json:"findings" yaml:"findings"`
	Summary    string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
}

// Validate checks score ranges; out-of-range output from an executor is
// unusable rather than retryable.
func (r *ResearchResult) Validate() error {
	if r == nil {
		return fmt.Errorf("research result is nil")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	for i, f := range r.Findings {
		if f.Relevance < 0 || f.Relevance > 1 {
			return fmt.Errorf("finding[%d] relevance %v outside [0,1]", i, f.Relevance)
		}
	}
	return nil
}

// Draft is one version of the document. Each revision produces a new value;
// the coordinator keeps only the current one.
type Draft struct {
	Title        string   `json:"title" yaml:"title"`
	Introduction string   `json:"introduction" yaml:"introduction"`
	Sections     []string `json:"sections" yaml:"sections"`
	Conclusion   string   `json:"conclusion" yaml:"conclusion"`
	WordCount    int      `json:"wordCount" yaml:"wordCount"`
}

// Text returns the draft content joined into a single string, without the
// title. Used for word counting and diffing.
func (d *Draft) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Sections)+2)
	if d.Introduction != "" {
		parts = append(parts, d.Introduction)
	}
	parts = append(parts, d.Sections...)
	if d.Conclusion != "" {
		parts = append(parts, d.Conclusion)
	}
	return strings.Join(parts, "\n\n")
}

// Words counts whitespace-separated tokens across title and content.
func (d *Draft) Words() int {
	if d == nil {
		return 0
	}
	return len(strings.Fields(d.Title)) + len(strings.Fields(d.Text()))
}

// ValidateTopic rejects empty or whitespace-only topics. The coordinator
// calls it once at entry, before any stage executor runs.
func ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	return nil
}
