package types

// SDKFamily identifies which provider family a model speaks.
type SDKFamily string

const (
	SDKStandard     SDKFamily = "standard"
	SDKAzureOpenAI  SDKFamily = "azure-openai"
	SDKDeepSeekLike SDKFamily = "deepseek-like"
)

// ModelConfig is the read-only catalog entry for one model. Entries are
// loaded from models.yaml at startup and never mutated per-request.
type ModelConfig struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	TokenLimit  int    `yaml:"token_limit" json:"token_limit"`
	MaxLength   int    `yaml:"max_length" json:"max_length"`

	SDK            string `yaml:"sdk" json:"sdk"`
	DeploymentName string `yaml:"deployment_name,omitempty" json:"deployment_name,omitempty"`

	AgentID        string `yaml:"agent_id,omitempty" json:"agent_id,omitempty"`
	AzureAgentMode bool   `yaml:"azure_agent_mode,omitempty" json:"azure_agent_mode,omitempty"`

	SearchModeEnabled bool `yaml:"search_mode_enabled,omitempty" json:"search_mode_enabled,omitempty"`
	AvoidSystemPrompt bool `yaml:"avoid_system_prompt,omitempty" json:"avoid_system_prompt,omitempty"`

	// SupportsTemperature defaults to true when unset.
	SupportsTemperature *bool `yaml:"supports_temperature,omitempty" json:"supports_temperature,omitempty"`

	// ReplacedBy points at the catalog entry that superseded this one.
	// The selector follows these links when resolving requested ids.
	ReplacedBy string `yaml:"replaced_by,omitempty" json:"replaced_by,omitempty"`
}

// IsAgent reports whether this model is bound to a persistent agent thread.
func (m *ModelConfig) IsAgent() bool {
	return m != nil && m.AgentID != ""
}

// TemperatureSupported reports whether the provider accepts a temperature
// field for this model.
func (m *ModelConfig) TemperatureSupported() bool {
	return m == nil || m.SupportsTemperature == nil || *m.SupportsTemperature
}
