// Package policy implements the revision decision: a pure, deterministic
// mapping from critique feedback and the current iteration to
// accept/revise/abandon. It performs no I/O and has no side effects, which is
// what makes the coordinator's loop trivially testable.
package policy

import (
	"fmt"

	"github.com/scribeflow/scribeflow/model"
)

// Decision is the outcome of evaluating critique feedback.
type Decision string

const (
	Accept  Decision = "accept"
	Revise  Decision = "revise"
	Abandon Decision = "abandon"
)

// Config is the serialisable decision configuration.
type Config struct {
	// MaxIterations bounds the number of critique cycles, >= 1.
	MaxIterations int `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`
	// QualityThreshold in [0,10]; a score at or above it accepts the draft.
	QualityThreshold float64 `json:"qualityThreshold,omitempty" yaml:"qualityThreshold,omitempty"`
	// ReviseMargin is how far below the threshold a score must fall before a
	// revision is considered worth another cycle.
	ReviseMargin float64 `json:"reviseMargin,omitempty" yaml:"reviseMargin,omitempty"`
}

// DefaultConfig mirrors the shipped defaults: three cycles, threshold 7.0,
// margin 0.5.
func DefaultConfig() Config {
	return Config{
		MaxIterations:    3,
		QualityThreshold: 7.0,
		ReviseMargin:     0.5,
	}
}

// Validate returns an error describing invalid settings or nil.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 10 {
		return fmt.Errorf("qualityThreshold %v outside [0,10]", c.QualityThreshold)
	}
	if c.ReviseMargin < 0 {
		return fmt.Errorf("reviseMargin must be >= 0, got %v", c.ReviseMargin)
	}
	return nil
}

// Decide evaluates feedback for the draft produced on the given 0-based
// iteration. Rules are applied in order; hard budget and explicit approval
// dominate, severity and score proximity are secondary:
//
//  1. structurally unusable feedback -> abandon
//  2. iteration budget exhausted -> accept (best effort, not an error)
//  3. explicit approval -> accept
//  4. quality at or above threshold -> accept
//  5. any major-severity item -> revise
//  6. quality more than ReviseMargin below threshold -> revise
//  7. otherwise -> accept
//
// The returned reason describes which rule fired.
func Decide(feedback *model.Feedback, iteration int, cfg Config) (Decision, string) {
	if err := feedback.Validate(); err != nil {
		return Abandon, fmt.Sprintf("feedback unusable: %v", err)
	}
	if iteration+1 >= cfg.MaxIterations {
		return Accept, fmt.Sprintf("iteration budget (%d) exhausted", cfg.MaxIterations)
	}
	if feedback.Approval == model.Approved {
		return Accept, "draft approved by critique"
	}
	if feedback.Quality >= cfg.QualityThreshold {
		return Accept, fmt.Sprintf("quality %.1f meets threshold %.1f", feedback.Quality, cfg.QualityThreshold)
	}
	if feedback.HasSeverity(model.SeverityMajor) {
		return Revise, fmt.Sprintf("%d major issue(s) outstanding", len(feedback.ItemsBySeverity(model.SeverityMajor)))
	}
	if cfg.QualityThreshold-feedback.Quality > cfg.ReviseMargin {
		return Revise, fmt.Sprintf("quality %.1f more than %.1f below threshold %.1f", feedback.Quality, cfg.ReviseMargin, cfg.QualityThreshold)
	}
	return Accept, fmt.Sprintf("quality %.1f acceptable despite remaining issues", feedback.Quality)
}
