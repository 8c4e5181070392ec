// Package executor defines the stage executor contracts consumed by the
// workflow coordinator, the retryable/fatal error taxonomy and a shared
// retry/backoff invoker. Research, writing and critique implementations are
// opaque to the engine: they accept typed input and return typed output or
// fail.
package executor

import (
	"context"

	"github.com/scribeflow/scribeflow/model"
)

// Research produces structured findings for a topic. It runs exactly once per
// workflow; there is no revision concept at this stage.
type Research interface {
	Run(ctx context.Context, topic string) (*model.ResearchResult, error)
}

// WritingRequest is the typed input of the writing stage. PriorDraft and
// Feedback are nil for the initial draft and set together for revisions.
type WritingRequest struct {
	Topic      string
	Research   *model.ResearchResult
	PriorDraft *model.Draft
	Feedback   *model.Feedback
}

// IsRevision reports whether the request asks for a revision pass.
func (r *WritingRequest) IsRevision() bool {
	return r != nil && r.PriorDraft != nil && r.Feedback != nil
}

// Writing produces a draft from research, optionally revising a prior draft
// against critique feedback.
type Writing interface {
	Run(ctx context.Context, request *WritingRequest) (*model.Draft, error)
}

// Critique scores a draft against the research it was written from.
type Critique interface {
	Run(ctx context.Context, draft *model.Draft, research *model.ResearchResult) (*model.Feedback, error)
}
