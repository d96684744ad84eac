package provider

import (
	"strings"
	"testing"

	"github.com/af-corp/converse-gateway/internal/types"
)

func TestGetHandlerNilModel(t *testing.T) {
	_, err := GetHandler(nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil model")
	}
	if !strings.Contains(err.Error(), "Model configuration is required") {
		t.Errorf("error = %q", err)
	}
}

func TestGetHandlerAvoidSystemPromptPrecedence(t *testing.T) {
	// avoid_system_prompt wins even when sdk says azure-openai.
	model := &types.ModelConfig{ID: "x", SDK: string(types.SDKAzureOpenAI), AvoidSystemPrompt: true}
	h, err := GetHandler(model, nil, nil)
	if err != nil {
		t.Fatalf("GetHandler: %v", err)
	}
	if h.Name() != "DeepSeekHandler" {
		t.Errorf("handler = %s, want DeepSeekHandler", h.Name())
	}
}

func TestGetHandlerAzure(t *testing.T) {
	h, err := GetHandler(&types.ModelConfig{ID: "x", SDK: string(types.SDKAzureOpenAI)}, nil, nil)
	if err != nil {
		t.Fatalf("GetHandler: %v", err)
	}
	if h.Name() != "AzureHandler" {
		t.Errorf("handler = %s, want AzureHandler", h.Name())
	}
}

func TestGetHandlerDefaultStandard(t *testing.T) {
	h, err := GetHandler(&types.ModelConfig{ID: "x", SDK: "openai"}, nil, nil)
	if err != nil {
		t.Fatalf("GetHandler: %v", err)
	}
	if h.Name() != "StandardHandler" {
		t.Errorf("handler = %s, want StandardHandler", h.Name())
	}
}

func TestHandlerName(t *testing.T) {
	cases := []struct {
		model *types.ModelConfig
		want  string
	}{
		{nil, "Unknown"},
		{&types.ModelConfig{ID: "x", SDK: "openai", AvoidSystemPrompt: true}, "DeepSeekHandler"},
		{&types.ModelConfig{ID: "x", SDK: string(types.SDKAzureOpenAI)}, "AzureHandler"},
		{&types.ModelConfig{ID: "x"}, "StandardHandler"},
	}
	for _, tc := range cases {
		if got := HandlerName(tc.model); got != tc.want {
			t.Errorf("HandlerName(%+v) = %s, want %s", tc.model, got, tc.want)
		}
	}
}
