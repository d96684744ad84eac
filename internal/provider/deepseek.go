package provider

import (
	"context"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// DeepSeekHandler covers reasoning-capable providers whose models reject a
// system role. The system prompt is folded into the first user turn instead
// of being prepended as a system message, and the reasoning tuning fields
// are passed through.
type DeepSeekHandler struct {
	client CompletionClient
}

func NewDeepSeekHandler(client CompletionClient) *DeepSeekHandler {
	return &DeepSeekHandler{client: client}
}

func (h *DeepSeekHandler) Name() string { return "DeepSeekHandler" }

func (h *DeepSeekHandler) PrepareMessages(messages []types.Message, systemPrompt string, _ *types.ModelConfig) []types.Message {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	out := make([]types.Message, 0, len(messages)+1)
	out = append(out, messages...)

	for i, m := range out {
		if m.Role == types.RoleUser {
			merged := systemPrompt + "\n\n" + m.Content.PlainText()
			out[i].Content = types.MessageContent{Text: merged}
			return out
		}
	}

	// No user turn to fold into; lead with the instructions as a user turn.
	return append([]types.Message{{
		Role:    types.RoleUser,
		Content: types.MessageContent{Text: systemPrompt},
	}}, out...)
}

func (h *DeepSeekHandler) BuildRequestParams(modelID string, messages []types.Message, temperature *float64, user *types.UserIdentity, streamEnabled bool, model *types.ModelConfig, reasoningEffort, verbosity string) *ChatParams {
	return &ChatParams{
		Model:           modelID,
		Messages:        messages,
		Temperature:     temperatureParam(temperature, model),
		Stream:          streamEnabled,
		User:            user.AuditBlob(),
		ReasoningEffort: reasoningEffort,
		Verbosity:       verbosity,
	}
}

func (h *DeepSeekHandler) ModelIDForRequest(requestedID string, model *types.ModelConfig) string {
	return modelIDForRequest(requestedID, model)
}

func (h *DeepSeekHandler) CreateCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error) {
	return h.client.CreateChatCompletion(ctx, params)
}
