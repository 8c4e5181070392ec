package model

import "fmt"

// Severity classifies a single feedback item.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeverityMajor:
		return true
	}
	return false
}

// Approval is the critique stage's verdict on a draft.
type Approval string

const (
	Approved      Approval = "approved"
	NeedsRevision Approval = "needs_revision"
)

// FeedbackItem is one actionable critique remark.
type FeedbackItem struct {
	Section    string   `json:"section" yaml:"section"`
	Issue      string   `json:"issue" yaml:"issue"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Severity   Severity `json:"severity" yaml:"severity"`
}

// Feedback is the structured output of one critique invocation. It is always
// evaluated against the draft that produced it; the coordinator never pairs
// feedback with a later draft.
type Feedback struct {
	Quality  float64        `json:"quality" yaml:"quality"`
	Items    []FeedbackItem `json:"items" yaml:"items"`
	Approval Approval       `json:"approval" yaml:"approval"`
	Summary  string         `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// HasSeverity reports whether any item carries the given severity.
func (f *Feedback) HasSeverity(s Severity) bool {
	if f == nil {
		return false
	}
	for _, item := range f.Items {
		if item.Severity == s {
			return true
		}
	}
	return false
}

// ItemsBySeverity returns the items matching the given severity, in order.
func (f *Feedback) ItemsBySeverity(s Severity) []FeedbackItem {
	if f == nil {
		return nil
	}
	var ret []FeedbackItem
	for _, item := range f.Items {
		if item.Severity == s {
			ret = append(ret, item)
		}
	}
	return ret
}

// Validate checks the quality range and item severities.
func (f *Feedback) Validate() error {
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}
	if f.Quality < 0 || f.Quality > 10 {
		return fmt.Errorf("quality %v outside [0,10]", f.Quality)
	}
	for i, item := range f.Items {
		if !item.Severity.IsValid() {
			return fmt.Errorf("item[%d] has unknown severity %q", i, item.Severity)
		}
	}
	return nil
}
