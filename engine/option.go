package engine

import (
	"github.com/scribeflow/scribeflow/metrics"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/progress"
)

// Option customises a coordinator.
type Option func(c *Coordinator)

// WithConfig sets the run limits and retry budget.
func WithConfig(config Config) Option {
	return func(c *Coordinator) {
		c.config = config
	}
}

// WithAggregator sets the usage aggregator; by default the coordinator
// creates its own, retrievable via Metrics.
func WithAggregator(aggregator *metrics.Aggregator) Option {
	return func(c *Coordinator) {
		c.aggregator = aggregator
	}
}

// WithPublisher sets the progress publisher. The coordinator closes it when
// the run reaches a terminal state.
func WithPublisher(publisher *progress.Publisher) Option {
	return func(c *Coordinator) {
		c.publisher = publisher
	}
}

// WithProgressBuffer sets the per-subscriber event buffer of the internally
// created publisher. Ignored when WithPublisher is used.
func WithProgressBuffer(buffer int) Option {
	return func(c *Coordinator) {
		c.progressBuffer = buffer
	}
}

// WithAuditStore enables retention of per-iteration drafts and feedback.
func WithAuditStore(store AuditStore) Option {
	return func(c *Coordinator) {
		c.audit = store
	}
}

// WithResearchFallback enables degraded mode: when the research stage fails
// after its retry budget, the workflow continues with the supplied findings
// at low confidence instead of terminating.
func WithResearchFallback(findings []model.Finding) Option {
	return func(c *Coordinator) {
		c.fallback = findings
	}
}
