package scribeflow

import (
	"github.com/scribeflow/scribeflow/agent"
	"github.com/scribeflow/scribeflow/engine"
	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/progress"
	"github.com/scribeflow/scribeflow/tracing"
)

// Option customises the service.
type Option func(s *Service)

// WithConfig sets the service configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithResearchExecutor replaces the research stage implementation.
func WithResearchExecutor(research executor.Research) Option {
	return func(s *Service) { s.research = research }
}

// WithWritingExecutor replaces the writing stage implementation.
func WithWritingExecutor(writing executor.Writing) Option {
	return func(s *Service) { s.writing = writing }
}

// WithCritiqueExecutor replaces the critique stage implementation.
func WithCritiqueExecutor(critique executor.Critique) Option {
	return func(s *Service) { s.critique = critique }
}

// WithLLMClient supplies the model client used by the default writing and
// critique executors (and research summaries).
func WithLLMClient(llm agent.LLMClient) Option {
	return func(s *Service) { s.llm = llm }
}

// WithSearcher supplies the search backend for the default research executor.
func WithSearcher(searcher agent.Searcher) Option {
	return func(s *Service) { s.searcher = searcher }
}

// WithAuditStore enables retention of per-iteration drafts and results.
func WithAuditStore(store engine.AuditStore) Option {
	return func(s *Service) { s.audit = store }
}

// WithResearchFallback enables degraded mode on research failure.
func WithResearchFallback(findings []model.Finding) Option {
	return func(s *Service) { s.fallback = findings }
}

// WithProgressObserver registers a callback receiving every progress event of
// each run. Observers run on their own goroutine and cannot slow the
// workflow down.
func WithProgressObserver(observer func(progress.Event)) Option {
	return func(s *Service) { s.observers = append(s.observers, observer) }
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. Safe to call multiple times; the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
