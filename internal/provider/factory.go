package provider

import (
	"github.com/af-corp/converse-gateway/internal/types"
)

// GetHandler selects the completion handler for a model. The predicate is
// ordered: avoid_system_prompt takes precedence over the sdk family, and the
// standard handler is the default. A nil model is the only hard failure.
func GetHandler(model *types.ModelConfig, azureClient, standardClient CompletionClient) (Handler, error) {
	switch {
	case model == nil:
		return nil, types.NewConfigurationError("Model configuration is required")
	case model.AvoidSystemPrompt:
		return NewDeepSeekHandler(standardClient), nil
	case model.SDK == string(types.SDKAzureOpenAI):
		return NewAzureHandler(azureClient), nil
	default:
		return NewStandardHandler(standardClient), nil
	}
}

// HandlerName reports which handler a model would get. Diagnostic only:
// never fails, returns "Unknown" for a nil model.
func HandlerName(model *types.ModelConfig) string {
	switch {
	case model == nil:
		return "Unknown"
	case model.AvoidSystemPrompt:
		return "DeepSeekHandler"
	case model.SDK == string(types.SDKAzureOpenAI):
		return "AzureHandler"
	default:
		return "StandardHandler"
	}
}
