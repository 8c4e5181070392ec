package model

import "time"

// Stage identifies one phase of the generation workflow.
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageResearching  Stage = "researching"
	StageWriting      Stage = "writing"
	StageCritiquing   Stage = "critiquing"
	StageRevising     Stage = "revising"
	StageFinalizing   Stage = "finalizing"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"
)

// IsTerminal reports whether the stage ends the workflow.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// Result is the terminal outcome of one workflow run. On failure it still
// carries whatever was produced before the failure (last draft, research,
// revision count) so callers can diagnose or salvage partial work.
type Result struct {
	Draft      *Draft          `json:"draft,omitempty" yaml:"draft,omitempty"`
	Research   *ResearchResult `json:"research,omitempty" yaml:"research,omitempty"`
	Revisions  int             `json:"revisions" yaml:"revisions"`
	Elapsed    time.Duration   `json:"elapsed" yaml:"elapsed"`
	Quality    float64         `json:"quality" yaml:"quality"`
	Status     Stage           `json:"status" yaml:"status"`
	Diagnostic string          `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Completed reports whether the run finished with an accepted (or best-effort
// budget-exhausted) draft.
func (r *Result) Completed() bool {
	return r != nil && r.Status == StageCompleted
}
