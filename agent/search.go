package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/scribeflow/scribeflow/executor"
)

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Searcher abstracts the search backend consumed by the research executor.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

const defaultSearchBaseURL = "https://api.tavily.com"

// SearchClient talks to a Tavily-compatible search REST API. The HTTP client
// is shared and safe for concurrent workflow instances.
type SearchClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewSearchClient returns a client for the given API key; httpClient may be
// nil to use http.DefaultClient.
func NewSearchClient(apiKey, baseURL string, httpClient *http.Client) *SearchClient {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SearchClient{httpClient: httpClient, apiKey: apiKey, baseURL: baseURL}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

func (c *SearchClient) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	body, err := json.Marshal(searchRequest{APIKey: c.apiKey, Query: query, MaxResults: limit})
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, executor.NewRetryableError(err)
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, executor.NewRetryableError(err)
	}
	switch {
	case response.StatusCode == http.StatusOK:
	case response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= http.StatusInternalServerError:
		return nil, executor.Retryablef("search: status %d: %s", response.StatusCode, data)
	default:
		return nil, executor.Fatalf("search: status %d: %s", response.StatusCode, data)
	}
	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, executor.NewFatalError(fmt.Errorf("search: malformed response: %w", err))
	}
	return parsed.Results, nil
}
