package agent

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/scribeflow/scribeflow/executor"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat
// completions).
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

// NewOpenAILLM builds a client from settings.
func NewOpenAILLM(settings *Settings) (*OpenAILLM, error) {
	if settings == nil {
		return nil, errors.New("llm settings are nil")
	}
	if settings.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if settings.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return &OpenAILLM{Model: settings.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", executor.Fatalf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyAPIError maps transport failures onto the engine's retry taxonomy:
// rate limits, timeouts and server errors are retryable, the rest fatal.
func classifyAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode >= http.StatusInternalServerError:
			return executor.NewRetryableError(err)
		default:
			return executor.NewFatalError(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// Network-level failures (connection reset, DNS) have no status code.
	return executor.NewRetryableError(err)
}
