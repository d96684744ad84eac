package provider

import (
	"context"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// AzureHandler speaks to Azure OpenAI deployments. The body format matches
// the standard family; the deployment-name indirection and transport quirks
// live in the Azure client.
type AzureHandler struct {
	client CompletionClient
}

func NewAzureHandler(client CompletionClient) *AzureHandler {
	return &AzureHandler{client: client}
}

func (h *AzureHandler) Name() string { return "AzureHandler" }

func (h *AzureHandler) PrepareMessages(messages []types.Message, systemPrompt string, _ *types.ModelConfig) []types.Message {
	return prependSystemMessage(messages, systemPrompt)
}

func (h *AzureHandler) BuildRequestParams(modelID string, messages []types.Message, temperature *float64, user *types.UserIdentity, streamEnabled bool, model *types.ModelConfig, _, _ string) *ChatParams {
	return &ChatParams{
		Model:       modelID,
		Messages:    messages,
		Temperature: temperatureParam(temperature, model),
		Stream:      streamEnabled,
		User:        user.AuditBlob(),
	}
}

func (h *AzureHandler) ModelIDForRequest(requestedID string, model *types.ModelConfig) string {
	return modelIDForRequest(requestedID, model)
}

func (h *AzureHandler) CreateCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error) {
	return h.client.CreateChatCompletion(ctx, params)
}
