package scribeflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scribeflow/scribeflow/agent"
	"github.com/scribeflow/scribeflow/engine"
)

// SearchConfig configures the research stage's search backend.
type SearchConfig struct {
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	// SecretURL optionally points at a scy-encrypted secret holding the key.
	SecretURL  string `json:"secretURL,omitempty" yaml:"secretURL,omitempty"`
	BaseURL    string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	MaxResults int    `json:"maxResults,omitempty" yaml:"maxResults,omitempty"`
}

// Config is the serialisable service configuration. The zero value is useful;
// nested fields inherit their package defaults.
type Config struct {
	Engine engine.Config   `json:"engine" yaml:"engine"`
	LLM    *agent.Settings `json:"llm,omitempty" yaml:"llm,omitempty"`
	// LLMSecretURL optionally points at a scy-encrypted secret holding the
	// model API key.
	LLMSecretURL string       `json:"llmSecretURL,omitempty" yaml:"llmSecretURL,omitempty"`
	Search       SearchConfig `json:"search" yaml:"search"`
	// AuditURL enables retention of per-iteration drafts under this afs URL.
	AuditURL string `json:"auditURL,omitempty" yaml:"auditURL,omitempty"`
	// ProgressBuffer sizes each subscriber's event buffer.
	ProgressBuffer int `json:"progressBuffer,omitempty" yaml:"progressBuffer,omitempty"`
}

// DefaultConfig returns a config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{Engine: engine.DefaultConfig()}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	return c.Engine.Validate()
}

// LoadConfig reads a YAML config file. Unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
