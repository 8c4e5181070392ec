package scribeflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/scribeflow/scribeflow/agent"
	"github.com/scribeflow/scribeflow/audit"
	"github.com/scribeflow/scribeflow/engine"
	"github.com/scribeflow/scribeflow/executor"
	"github.com/scribeflow/scribeflow/model"
	"github.com/scribeflow/scribeflow/progress"
)

// Service wires executors, config, audit retention and progress observation
// into ready-to-run workflow coordinators. A Service is safe for concurrent
// Generate calls; each call gets its own coordinator, metrics and progress
// stream.
type Service struct {
	config    *Config
	llm       agent.LLMClient
	searcher  agent.Searcher
	research  executor.Research
	writing   executor.Writing
	critique  executor.Critique
	audit     engine.AuditStore
	fallback  []model.Finding
	observers []func(progress.Event)
}

// New creates a service. Executors default to the reference agent
// implementations, which require an LLM client (from config or
// WithLLMClient) and, for research, a search backend.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.llm == nil && s.config.LLM != nil {
		llm, err := agent.NewOpenAILLM(s.config.LLM)
		if err != nil {
			return err
		}
		s.llm = llm
	}
	if s.searcher == nil && s.config.Search.APIKey != "" {
		s.searcher = agent.NewSearchClient(s.config.Search.APIKey, s.config.Search.BaseURL, nil)
	}
	if s.research == nil {
		if s.searcher == nil {
			return fmt.Errorf("research executor requires a search backend; set search.apiKey or supply WithSearcher/WithResearchExecutor")
		}
		s.research = &agent.ResearchExecutor{Search: s.searcher, LLM: s.llm, MaxResults: s.config.Search.MaxResults}
	}
	if s.writing == nil {
		if s.llm == nil {
			return fmt.Errorf("writing executor requires an LLM client; set llm config or supply WithLLMClient/WithWritingExecutor")
		}
		s.writing = &agent.WritingExecutor{LLM: s.llm}
	}
	if s.critique == nil {
		if s.llm == nil {
			return fmt.Errorf("critique executor requires an LLM client; set llm config or supply WithLLMClient/WithCritiqueExecutor")
		}
		s.critique = &agent.CritiqueExecutor{LLM: s.llm}
	}
	if s.audit == nil && s.config.AuditURL != "" {
		s.audit = audit.New(s.config.AuditURL)
	}
	return nil
}

// NewCoordinator builds a coordinator for a single run, with a fresh
// progress stream and metrics aggregator. Use it directly when you need to
// subscribe to progress or read metrics after the run.
func (s *Service) NewCoordinator() (*engine.Coordinator, error) {
	options := []engine.Option{
		engine.WithConfig(s.config.Engine),
		engine.WithProgressBuffer(s.config.ProgressBuffer),
	}
	if s.audit != nil {
		options = append(options, engine.WithAuditStore(s.audit))
	}
	if len(s.fallback) > 0 {
		options = append(options, engine.WithResearchFallback(s.fallback))
	}
	return engine.New(s.research, s.writing, s.critique, options...)
}

// Generate runs the full workflow for the topic. Registered progress
// observers receive every event; the call returns once the run and all
// observer deliveries finished.
func (s *Service) Generate(ctx context.Context, topic string) (*model.Result, error) {
	coordinator, err := s.NewCoordinator()
	if err != nil {
		return nil, err
	}
	var wg sync.WaitGroup
	for _, observer := range s.observers {
		events, _ := coordinator.Subscribe()
		wg.Add(1)
		go func(observer func(progress.Event)) {
			defer wg.Done()
			for event := range events {
				observer(event)
			}
		}(observer)
	}
	result, err := coordinator.Run(ctx, topic)
	wg.Wait()
	return result, err
}
