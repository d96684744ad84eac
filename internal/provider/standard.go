package provider

import (
	"context"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// StandardHandler speaks to OpenAI-compatible chat completion endpoints.
type StandardHandler struct {
	client CompletionClient
}

func NewStandardHandler(client CompletionClient) *StandardHandler {
	return &StandardHandler{client: client}
}

func (h *StandardHandler) Name() string { return "StandardHandler" }

func (h *StandardHandler) PrepareMessages(messages []types.Message, systemPrompt string, _ *types.ModelConfig) []types.Message {
	return prependSystemMessage(messages, systemPrompt)
}

func (h *StandardHandler) BuildRequestParams(modelID string, messages []types.Message, temperature *float64, user *types.UserIdentity, streamEnabled bool, model *types.ModelConfig, _, _ string) *ChatParams {
	// reasoning_effort and verbosity are reserved for reasoning-capable
	// providers and never emitted here.
	return &ChatParams{
		Model:       modelID,
		Messages:    messages,
		Temperature: temperatureParam(temperature, model),
		Stream:      streamEnabled,
		User:        user.AuditBlob(),
	}
}

func (h *StandardHandler) ModelIDForRequest(requestedID string, model *types.ModelConfig) string {
	return modelIDForRequest(requestedID, model)
}

func (h *StandardHandler) CreateCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error) {
	return h.client.CreateChatCompletion(ctx, params)
}
