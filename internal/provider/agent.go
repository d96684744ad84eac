package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// AgentClient is the "create agent/thread response" SDK surface: a byte
// stream plus, when the provider opened a new thread, its id.
type AgentClient interface {
	CreateAgentResponse(ctx context.Context, params *AgentParams) (*stream.Stream, error)
}

// AgentOptions carries the per-call settings of an agent invocation.
type AgentOptions struct {
	Temperature *float64
	ThreadID    string
	BotID       string
	User        *types.UserIdentity
	Attempt     int
}

// AgentHandler invokes reasoning models bound to a persistent provider-side
// thread. It is not produced by GetHandler; the dispatcher holds it directly
// because its request shape differs from the completion families.
type AgentHandler struct {
	client AgentClient
	logger *slog.Logger
}

func NewAgentHandler(client AgentClient, logger *slog.Logger) *AgentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentHandler{client: client, logger: logger}
}

func (h *AgentHandler) Name() string { return "AgentHandler" }

// Invoke runs one agent turn. A model reaching this point without an agentId
// is a configuration error: it is logged with full context and returned,
// never silently downgraded to another path. The caller does not retry.
func (h *AgentHandler) Invoke(ctx context.Context, model *types.ModelConfig, messages []types.Message, opts AgentOptions) (*stream.Stream, error) {
	if model == nil {
		return nil, types.NewConfigurationError("Model configuration is required")
	}
	if model.AgentID == "" {
		err := types.NewConfigurationError(
			fmt.Sprintf("Model %s does not have an agentId configured", model.ID),
		)
		h.logger.Error("agent invocation without agentId",
			"model", model.ID,
			"message_count", len(messages),
			"attempt", opts.Attempt,
			"user", opts.User.AuditBlob(),
			"bot_id", opts.BotID,
		)
		return nil, err
	}

	temperature := 1.0
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	return h.client.CreateAgentResponse(ctx, &AgentParams{
		AgentID:     model.AgentID,
		Messages:    messages,
		Temperature: temperature,
		User:        opts.User.AuditBlob(),
		BotID:       opts.BotID,
		ThreadID:    opts.ThreadID,
		Stream:      true,
	})
}

// HTTPAgentClient implements AgentClient against the agent-thread HTTP API.
type HTTPAgentClient struct {
	cfg    ClientConfig
	client *http.Client
}

func NewHTTPAgentClient(cfg ClientConfig) *HTTPAgentClient {
	return &HTTPAgentClient{cfg: cfg, client: newHTTPClient(cfg)}
}

func (c *HTTPAgentClient) CreateAgentResponse(ctx context.Context, params *AgentParams) (*stream.Stream, error) {
	url := c.cfg.BaseURL + "/agents/responses"
	resp, err := PostJSON(ctx, c.client, url, params, func(req *http.Request) {
		req.Header.Set("api-key", c.cfg.APIKey)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, &types.PipelineError{
			Code:     types.CodeProviderError,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("agent provider returned status %d", resp.StatusCode),
			Metadata: map[string]any{"statusCode": resp.StatusCode},
		}
	}

	out := &stream.Stream{Body: resp.Body}
	if threadID := resp.Header.Get("X-Thread-Id"); threadID != "" {
		out.Meta = &stream.Metadata{ThreadID: threadID}
	}
	return out, nil
}
