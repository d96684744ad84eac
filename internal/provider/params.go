package provider

import "github.com/af-corp/converse-gateway/internal/types"

// ChatParams is the provider-agnostic "create chat completion" request. The
// JSON shape matches the OpenAI-compatible wire format; optional fields are
// pointers or omitempty strings so an unsupported field is literally absent
// from the serialized body, not null-valued.
type ChatParams struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
	User        string          `json:"user,omitempty"`

	// Reserved for reasoning-capable providers; Standard/Azure handlers
	// never populate these.
	ReasoningEffort string `json:"reasoning_effort,omitempty"`
	Verbosity       string `json:"verbosity,omitempty"`
}

// AgentParams is the "create agent/thread response" request shape.
type AgentParams struct {
	AgentID     string          `json:"agent_id"`
	Messages    []types.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
	User        string          `json:"user,omitempty"`
	BotID       string          `json:"bot_id,omitempty"`
	ThreadID    string          `json:"thread_id,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
}
