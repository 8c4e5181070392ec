package agent

import (
	"context"
	"sync"

	"github.com/scribeflow/scribeflow/executor"
)

// MockLLM replays queued responses in order. Used by tests and offline runs.
type MockLLM struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	next      int
	Prompts   []Prompt
}

func (m *MockLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if m.next >= len(m.Responses) {
		return "", executor.Fatalf("mock llm: no response queued for call %d", m.next+1)
	}
	response := m.Responses[m.next]
	m.next++
	return response, nil
}
