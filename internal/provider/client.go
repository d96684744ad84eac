package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// CompletionClient is the thin SDK surface handlers call. Implementations
// hide provider transport quirks; every response comes back as one
// normalized Stream regardless of whether the provider streamed.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error)
}

// ClientConfig carries the connection settings for one provider endpoint.
type ClientConfig struct {
	BaseURL    string            `yaml:"base_url"`
	APIKey     string            `yaml:"api_key"`
	APIVersion string            `yaml:"api_version,omitempty"`
	Timeout    time.Duration     `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	return &http.Client{
		// No client-level timeout: it would cut off long streams. Upstream
		// cancellation arrives through the request context.
		Transport: &http.Transport{
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 32,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

// HTTPCompletionClient talks to an OpenAI-compatible chat completions
// endpoint over plain HTTP.
type HTTPCompletionClient struct {
	cfg    ClientConfig
	client *http.Client
}

func NewHTTPCompletionClient(cfg ClientConfig) *HTTPCompletionClient {
	return &HTTPCompletionClient{cfg: cfg, client: newHTTPClient(cfg)}
}

func (c *HTTPCompletionClient) CreateChatCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error) {
	url := c.cfg.BaseURL + "/chat/completions"
	resp, err := PostJSON(ctx, c.client, url, params, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		for k, v := range c.cfg.Headers {
			if v != "" {
				req.Header.Set(k, v)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return normalizeCompletionResponse(resp, params.Stream)
}

// AzureCompletionClient talks to an Azure OpenAI deployment. Same body
// format as the standard endpoint, different URL shape and auth header.
type AzureCompletionClient struct {
	cfg    ClientConfig
	client *http.Client
}

func NewAzureCompletionClient(cfg ClientConfig) *AzureCompletionClient {
	return &AzureCompletionClient{cfg: cfg, client: newHTTPClient(cfg)}
}

func (c *AzureCompletionClient) CreateChatCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.BaseURL, params.Model, c.cfg.APIVersion)
	resp, err := PostJSON(ctx, c.client, url, params, func(req *http.Request) {
		req.Header.Set("api-key", c.cfg.APIKey)
	})
	if err != nil {
		return nil, err
	}
	return normalizeCompletionResponse(resp, params.Stream)
}

func PostJSON(ctx context.Context, client *http.Client, url string, body any, decorate func(*http.Request)) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal provider request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		decorate(req)
	}
	return client.Do(req)
}

// normalizeCompletionResponse reduces both provider response shapes to the
// single stream contract: SSE deltas become an incremental text stream, a
// full JSON body becomes a one-shot stream.
func normalizeCompletionResponse(resp *http.Response, streamed bool) (*stream.Stream, error) {
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return nil, &types.PipelineError{
			Code:     types.CodeProviderError,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, body),
			Metadata: map[string]any{"statusCode": resp.StatusCode},
		}
	}

	if streamed {
		return &stream.Stream{Body: newSSETextReader(resp.Body)}, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	var parsed completionResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal provider response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return stream.FromText("", nil), nil
	}
	return stream.FromText(parsed.Choices[0].Message.Content, nil), nil
}

type completionResponseBody struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
