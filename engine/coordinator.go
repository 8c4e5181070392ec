package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/internal/clock"
	"github.com/scribeflow/scribeflow/internal/idgen"
	"github.com/scribeflow/scribeflow/metrics"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/policy"
	"github.com/scribeflow/scribeflow/progress"
	"github.com/scribeflow/scribeflow/tracing"
)

// Executor names used in progress events and metrics counters.
const (
	AgentResearch     = "research"
	AgentWriting      = "writing"
	AgentCritique     = "critique"
	AgentOrchestrator = "orchestrator"
)

// Coordinator owns one workflow run: it invokes the stage executors in
// order, applies the revision decision policy and emits metrics and progress
// on every transition. Stages run sequentially; the only concurrency is on
// the metrics/progress read side.
type Coordinator struct {
	research executor.Research
	writing  executor.Writing
	critique executor.Critique

	config         Config
	aggregator     *metrics.Aggregator
	publisher      *progress.Publisher
	progressBuffer int
	audit          AuditStore
	fallback       []model.Finding
}

// New creates a coordinator for the given stage executors.
func New(research executor.Research, writing executor.Writing, critique executor.Critique, options ...Option) (*Coordinator, error) {
	if research == nil || writing == nil || critique == nil {
		return nil, fmt.Errorf("all stage executors are required")
	}
	c := &Coordinator{
		research: research,
		writing:  writing,
		critique: critique,
		config:   DefaultConfig(),
	}
	for _, option := range options {
		option(c)
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if c.aggregator == nil {
		c.aggregator = metrics.New()
	}
	if c.publisher == nil {
		c.publisher = progress.NewPublisher(c.progressBuffer)
	}
	return c, nil
}

// Subscribe attaches a progress observer. The returned channel is closed when
// the run reaches a terminal state or the observer cancels.
func (c *Coordinator) Subscribe() (<-chan progress.Event, func()) {
	return c.publisher.Subscribe()
}

// Metrics returns a consistent snapshot of the usage counters.
func (c *Coordinator) Metrics() metrics.Snapshot {
	return c.aggregator.Snapshot()
}

// run holds the per-run mutable state, owned by a single goroutine.
type run struct {
	c        *Coordinator
	id       string
	state    State
	research *model.ResearchResult
	draft    *model.Draft
	feedback *model.Feedback
}

// Run executes the workflow for the topic. On failure the returned result
// still carries the last draft, the research used and the revision count; the
// error is always a *WorkflowError. Cancellation is honoured at stage
// boundaries and propagated into in-flight stage calls via ctx.
func (c *Coordinator) Run(ctx context.Context, topic string) (*model.Result, error) {
	defer c.publisher.Close()

	if err := model.ValidateTopic(topic); err != nil {
		c.publisher.Publish(progress.Event{
			Stage:   model.StageFailed,
			Agent:   AgentOrchestrator,
			Status:  progress.StatusError,
			Message: err.Error(),
		})
		return nil, &WorkflowError{Stage: model.StageInitializing, Cause: err}
	}

	r := &run{c: c, id: idgen.New()}
	r.state = State{
		RunID:     r.id,
		Stage:     model.StageInitializing,
		StartedAt: clock.Now(),
	}
	r.transition(model.StageInitializing, fmt.Sprintf("starting workflow for %q", topic))

	// Research runs once; there is no revision concept at this stage. Partial
	// findings returned alongside a failure stay on the run for diagnostics.
	r.transition(model.StageResearching, "gathering research")
	research, err := r.invokeResearch(ctx, topic)
	r.research = research
	if err != nil {
		if len(c.fallback) > 0 {
			r.research = degradedResearch(topic, c.fallback, err)
			c.publisher.Publish(progress.Event{
				Stage:   model.StageResearching,
				Agent:   AgentResearch,
				Status:  progress.StatusCompleted,
				Message: "research degraded to fallback findings",
				Percent: progress.StagePercent(model.StageResearching, 0),
			})
		} else {
			return r.fail(ctx, model.StageResearching, err)
		}
	}

	r.transition(model.StageWriting, "writing initial draft")
	draft, err := r.invokeWriting(ctx, &executor.WritingRequest{Topic: topic, Research: r.research})
	if err != nil {
		return r.fail(ctx, model.StageWriting, err)
	}
	r.draft = draft
	r.recordIteration(ctx, 0, draft, nil, nil)

	// Revision loop, bounded by the iteration budget: the decision policy
	// accepts unconditionally once the budget is reached, so exhaustion
	// finalizes best-effort rather than failing.
	for {
		if err := ctx.Err(); err != nil {
			return r.fail(ctx, r.state.Stage, err)
		}
		r.transition(model.StageCritiquing, fmt.Sprintf("critiquing draft (iteration %d)", r.state.Iteration))
		feedback, err := r.invokeCritique(ctx, r.draft, r.research)
		if err != nil {
			return r.fail(ctx, model.StageCritiquing, err)
		}
		r.feedback = feedback

		decision, reason := policy.Decide(feedback, r.state.Iteration, c.config.Policy)
		c.publisher.Publish(progress.Event{
			Stage:   r.state.Stage,
			Agent:   AgentOrchestrator,
			Status:  progress.StatusCompleted,
			Message: reason,
			Percent: progress.StagePercent(r.state.Stage, r.state.Iteration),
			Metadata: map[string]interface{}{
				"decision":  string(decision),
				"quality":   feedback.Quality,
				"iteration": r.state.Iteration,
			},
		})

		switch decision {
		case policy.Accept:
			return r.finalize(ctx)
		case policy.Abandon:
			return r.fail(ctx, model.StageCritiquing, fmt.Errorf("revision abandoned: %s", reason))
		case policy.Revise:
			if err := ctx.Err(); err != nil {
				return r.fail(ctx, r.state.Stage, err)
			}
			r.transition(model.StageRevising, fmt.Sprintf("revising draft (cycle %d)", r.state.Iteration+1))
			revised, err := r.invokeWriting(ctx, &executor.WritingRequest{
				Topic:      topic,
				Research:   r.research,
				PriorDraft: r.draft,
				Feedback:   feedback,
			})
			if err != nil {
				return r.fail(ctx, model.StageRevising, err)
			}
			r.recordIteration(ctx, r.state.Iteration+1, revised, r.draft, feedback)
			r.draft = revised
			r.state.Iteration++
			c.aggregator.AddRevision()
		}
	}
}

// transition advances the workflow stage, stamping the state and emitting a
// progress event before control returns to the caller.
func (r *run) transition(stage model.Stage, message string) {
	r.state.Stage = stage
	r.state.StageAt = clock.Now()
	status := progress.StatusWorking
	switch stage {
	case model.StageCompleted:
		status = progress.StatusCompleted
	case model.StageFailed:
		status = progress.StatusError
	}
	r.c.publisher.Publish(progress.Event{
		Stage:   stage,
		Agent:   AgentOrchestrator,
		Status:  status,
		Message: message,
		Percent: progress.StagePercent(stage, r.state.Iteration),
		Metadata: map[string]interface{}{
			"runID":     r.id,
			"iteration": r.state.Iteration,
		},
	})
}

func (r *run) invokeResearch(ctx context.Context, topic string) (*model.ResearchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "stage.research")
	r.publishAgent(AgentResearch, progress.StatusWorking, "researching "+topic)
	started := clock.Now()
	result, attempts, err := executor.Invoke(ctx, r.c.config.Retry, "research", func(ctx context.Context) (*model.ResearchResult, error) {
		out, err := r.c.research.Run(ctx, topic)
		if err != nil {
			return out, err
		}
		if vErr := out.Validate(); vErr != nil {
			return out, executor.NewFatalError(vErr)
		}
		return out, nil
	})
	span.WithAttributes(map[string]string{"topic": topic}).End(err)
	r.record(model.StageResearching, AgentResearch, started, costOf(summaryText(result)), attempts, err)
	if err != nil {
		r.publishAgent(AgentResearch, progress.StatusError, err.Error())
		return result, err
	}
	r.publishAgent(AgentResearch, progress.StatusCompleted, fmt.Sprintf("%d findings gathered", len(result.Findings)))
	return result, nil
}

func (r *run) invokeWriting(ctx context.Context, request *executor.WritingRequest) (*model.Draft, error) {
	name := "stage.writing"
	if request.IsRevision() {
		name = "stage.revision"
	}
	ctx, span := tracing.StartSpan(ctx, name)
	r.publishAgent(AgentWriting, progress.StatusWorking, "drafting")
	started := clock.Now()
	draft, attempts, err := executor.Invoke(ctx, r.c.config.Retry, "writing", func(ctx context.Context) (*model.Draft, error) {
		return r.c.writing.Run(ctx, request)
	})
	span.End(err)
	r.record(r.state.Stage, AgentWriting, started, costOf(draft.Text()+" "+titleOf(draft)), attempts, err)
	if err != nil {
		r.publishAgent(AgentWriting, progress.StatusError, err.Error())
		return nil, err
	}
	r.publishAgent(AgentWriting, progress.StatusCompleted, fmt.Sprintf("draft %q, ~%d words", draft.Title, draft.WordCount))
	return draft, nil
}

func (r *run) invokeCritique(ctx context.Context, draft *model.Draft, research *model.ResearchResult) (*model.Feedback, error) {
	ctx, span := tracing.StartSpan(ctx, "stage.critique")
	r.publishAgent(AgentCritique, progress.StatusWorking, "reviewing draft")
	started := clock.Now()
	feedback, attempts, err := executor.Invoke(ctx, r.c.config.Retry, "critique", func(ctx context.Context) (*model.Feedback, error) {
		out, err := r.c.critique.Run(ctx, draft, research)
		if err != nil {
			return out, err
		}
		if vErr := out.Validate(); vErr != nil {
			return out, executor.NewFatalError(vErr)
		}
		return out, nil
	})
	span.End(err)
	r.record(model.StageCritiquing, AgentCritique, started, costOf(feedbackText(feedback)), attempts, err)
	if err != nil {
		r.publishAgent(AgentCritique, progress.StatusError, err.Error())
		return nil, err
	}
	r.publishAgent(AgentCritique, progress.StatusCompleted, fmt.Sprintf("quality %.1f, %d item(s)", feedback.Quality, len(feedback.Items)))
	return feedback, nil
}

// record updates the aggregator for one completed stage invocation.
func (r *run) record(stage model.Stage, agent string, started time.Time, cost float64, attempts int, err error) {
	r.c.aggregator.Record(metrics.StageInvocation{
		Stage:     stage,
		Executor:  agent,
		Duration:  clock.Now().Sub(started),
		CostUnits: cost,
		Attempts:  attempts,
		Failed:    err != nil,
	})
}

func (r *run) publishAgent(agent string, status progress.Status, message string) {
	r.c.publisher.Publish(progress.Event{
		Stage:   r.state.Stage,
		Agent:   agent,
		Status:  status,
		Message: message,
		Percent: progress.StagePercent(r.state.Stage, r.state.Iteration),
	})
}

// recordIteration hands the draft to the audit store, if configured.
func (r *run) recordIteration(ctx context.Context, iteration int, draft, prior *model.Draft, feedback *model.Feedback) {
	if r.c.audit == nil {
		return
	}
	if err := r.c.audit.RecordIteration(ctx, r.id, iteration, draft, prior, feedback); err != nil {
		log.Printf("audit: failed to record iteration %d: %v", iteration, err)
	}
}

// finalize accepts the current draft and completes the run.
func (r *run) finalize(ctx context.Context) (*model.Result, error) {
	r.transition(model.StageFinalizing, "finalizing accepted draft")
	result := r.result(model.StageCompleted, "")
	if r.c.audit != nil {
		if err := r.c.audit.RecordResult(ctx, r.id, result); err != nil {
			log.Printf("audit: failed to record result: %v", err)
		}
	}
	r.transition(model.StageCompleted, "workflow completed")
	return result, nil
}

// fail terminates the run preserving partial work: the last draft, the
// research used and the metrics recorded so far all survive in the result.
func (r *run) fail(ctx context.Context, stage model.Stage, cause error) (*model.Result, error) {
	result := r.result(model.StageFailed, cause.Error())
	if r.c.audit != nil {
		if err := r.c.audit.RecordResult(ctx, r.id, result); err != nil {
			log.Printf("audit: failed to record result: %v", err)
		}
	}
	r.transition(model.StageFailed, cause.Error())
	return result, &WorkflowError{Stage: stage, Result: result, Cause: cause}
}

func (r *run) result(status model.Stage, diagnostic string) *model.Result {
	quality := 0.0
	if r.feedback != nil {
		quality = r.feedback.Quality
	}
	return &model.Result{
		Draft:      r.draft,
		Research:   r.research,
		Revisions:  r.state.Iteration,
		Elapsed:    clock.Now().Sub(r.state.StartedAt),
		Quality:    quality,
		Status:     status,
		Diagnostic: diagnostic,
	}
}

// degradedResearch builds the low-confidence fallback used when the research
// stage fails but the caller opted into degraded mode.
func degradedResearch(topic string, findings []model.Finding, cause error) *model.ResearchResult {
	return &model.ResearchResult{
		Topic:      topic,
		Findings:   findings,
		Summary:    fmt.Sprintf("limited research available for %s: %v", topic, cause),
		Confidence: 0.1,
	}
}

// costOf estimates usage units from produced text, two units per word.
func costOf(text string) float64 {
	return float64(len(strings.Fields(text)) * 2)
}

func summaryText(result *model.ResearchResult) string {
	if result == nil {
		return ""
	}
	return result.Summary
}

func titleOf(draft *model.Draft) string {
	if draft == nil {
		return ""
	}
	return draft.Title
}

func feedbackText(feedback *model.Feedback) string {
	if feedback == nil {
		return ""
	}
	parts := []string{feedback.Summary}
	for _, item := range feedback.Items {
		parts = append(parts, item.Issue, item.Suggestion)
	}
	return strings.Join(parts, " ")
}
