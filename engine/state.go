package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/policy"
)

// Config bounds a workflow run: decision policy limits plus the per-stage
// retry/timeout budget shared by every executor invocation.
type Config struct {
	Policy policy.Config        `json:"policy" yaml:"policy"`
	Retry  executor.RetryConfig `json:"retry" yaml:"retry"`
}

// DefaultConfig returns the engine defaults: three iterations, quality
// threshold 7.0, two retries with exponential backoff.
func DefaultConfig() Config {
	return Config{
		Policy: policy.DefaultConfig(),
		Retry:  executor.DefaultRetryConfig(),
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c Config) Validate() error {
	return c.Policy.Validate()
}

// State is a snapshot of the single mutable workflow object. It is owned
// exclusively by the coordinator; other components only ever see copies.
type State struct {
	RunID     string
	Stage     model.Stage
	Iteration int
	StartedAt time.Time
	StageAt   time.Time
}

// WorkflowError classifies a failed run. It carries the partial result (last
// draft, research, metrics counters reflected in the aggregator) so callers
// can diagnose or salvage.
type WorkflowError struct {
	Stage  model.Stage
	Result *model.Result
	Cause  error
}

func (e *WorkflowError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("workflow failed during %s", e.Stage)
	}
	return fmt.Sprintf("workflow failed during %s: %v", e.Stage, e.Cause)
}

func (e *WorkflowError) Unwrap() error { return e.Cause }

// AuditStore optionally retains intermediate drafts and feedback per
// revision cycle. Failures to persist are logged, never fatal to the run.
type AuditStore interface {
	RecordIteration(ctx context.Context, runID string, iteration int, draft, prior *model.Draft, feedback *model.Feedback) error
	RecordResult(ctx context.Context, runID string, result *model.Result) error
}
