// Package provider encapsulates the request-shape and response-shape quirks
// of each backend completion family behind one handler contract.
package provider

import (
	"context"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// DefaultSystemPrompt is used when the caller supplies none.
const DefaultSystemPrompt = "You are a helpful assistant."

// Handler is the normalized contract every completion provider family
// implements. Handlers are stateless once constructed with their client and
// safe to share across requests.
type Handler interface {
	Name() string

	// PrepareMessages prepends a system message (default prompt when none
	// given) and preserves the caller's message order.
	PrepareMessages(messages []types.Message, systemPrompt string, model *types.ModelConfig) []types.Message

	// BuildRequestParams assembles the provider request. Temperature is
	// included only when the model supports it; user identity is serialized
	// to a string blob for provider-side audit trails.
	BuildRequestParams(modelID string, messages []types.Message, temperature *float64, user *types.UserIdentity, streamEnabled bool, model *types.ModelConfig, reasoningEffort, verbosity string) *ChatParams

	// ModelIDForRequest returns the deployment name when the catalog entry
	// carries one, else the requested id unchanged.
	ModelIDForRequest(requestedID string, model *types.ModelConfig) string

	// CreateCompletion executes the prepared request through the handler's
	// client and returns the normalized stream.
	CreateCompletion(ctx context.Context, params *ChatParams) (*stream.Stream, error)
}

// prependSystemMessage is the shared PrepareMessages body for handlers whose
// providers accept a system role.
func prependSystemMessage(messages []types.Message, systemPrompt string) []types.Message {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	out := make([]types.Message, 0, len(messages)+1)
	out = append(out, types.Message{
		Role:    types.RoleSystem,
		Content: types.MessageContent{Text: systemPrompt},
	})
	return append(out, messages...)
}

func modelIDForRequest(requestedID string, model *types.ModelConfig) string {
	if model != nil && model.DeploymentName != "" {
		return model.DeploymentName
	}
	return requestedID
}

func temperatureParam(temperature *float64, model *types.ModelConfig) *float64 {
	if !model.TemperatureSupported() {
		return nil
	}
	return temperature
}
