package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/viant/scy"

	"github.com/scribeflow/scribeflow"
)

const timeRound = 100 * time.Millisecond

// resolveSecrets fills in API keys the config references indirectly: scy
// secret URLs first, environment variables as fallback.
func resolveSecrets(ctx context.Context, config *scribeflow.Config) error {
	if config.LLM != nil && config.LLM.APIKey == "" {
		key, err := loadSecret(ctx, config.LLMSecretURL, "OPENAI_API_KEY")
		if err != nil {
			return fmt.Errorf("llm api key: %w", err)
		}
		config.LLM.APIKey = key
	}
	if config.Search.APIKey == "" && (config.Search.SecretURL != "" || os.Getenv("TAVILY_API_KEY") != "") {
		key, err := loadSecret(ctx, config.Search.SecretURL, "TAVILY_API_KEY")
		if err != nil {
			return fmt.Errorf("search api key: %w", err)
		}
		config.Search.APIKey = key
	}
	return nil
}

func loadSecret(ctx context.Context, secretURL, envKey string) (string, error) {
	if secretURL != "" {
		resource := scy.NewResource(nil, secretURL, "")
		secret, err := scy.New().Load(ctx, resource)
		if err != nil {
			return "", fmt.Errorf("failed to load secret from %s: %w", secretURL, err)
		}
		return strings.TrimSpace(secret.String()), nil
	}
	if value := os.Getenv(envKey); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("no secret URL configured and %s is unset", envKey)
}
