package agent

import "context"

// Prompt is a single completion request.
type Prompt struct {
	System string
	User   string
}

// LLMClient abstracts the model backend so executors can be exercised with a
// mock in tests.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings configures a concrete LLM client.
type Settings struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey   string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	BaseURL  string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}
