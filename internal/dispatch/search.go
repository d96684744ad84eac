package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/af-corp/converse-gateway/internal/provider"
	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// SearchClient dispatches the tool-aware search path. This is the one route
// that crosses a process boundary instead of calling a handler object.
type SearchClient interface {
	Search(ctx context.Context, model *types.ModelConfig, messages []types.Message, opts Options) (*stream.Stream, error)
}

// HTTPSearchClient posts the turn to the tool-aware endpoint and streams its
// body back unchanged.
type HTTPSearchClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSearchClient(endpoint string, timeout time.Duration) *HTTPSearchClient {
	return &HTTPSearchClient{
		endpoint: endpoint,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:      16,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		},
	}
}

type searchRequestBody struct {
	Messages        []types.Message `json:"messages"`
	Model           string          `json:"model"`
	SearchMode      string          `json:"search_mode,omitempty"`
	Prompt          string          `json:"prompt,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	ForcedAgentType string          `json:"forced_agent_type,omitempty"`
	User            string          `json:"user,omitempty"`
}

func (c *HTTPSearchClient) Search(ctx context.Context, model *types.ModelConfig, messages []types.Message, opts Options) (*stream.Stream, error) {
	if c.endpoint == "" {
		return nil, types.NewConfigurationError("search endpoint is not configured")
	}

	body := searchRequestBody{
		Messages:        messages,
		Model:           modelID(model),
		SearchMode:      string(opts.SearchMode),
		Prompt:          opts.Prompt,
		Temperature:     opts.Temperature,
		ForcedAgentType: opts.ForcedAgentType,
		User:            opts.User.AuditBlob(),
	}

	resp, err := provider.PostJSON(ctx, c.client, c.endpoint, body, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, &types.PipelineError{
			Code:     types.CodeProviderError,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("search endpoint returned status %d", resp.StatusCode),
			Metadata: map[string]any{"statusCode": resp.StatusCode},
		}
	}
	return &stream.Stream{Body: resp.Body}, nil
}
