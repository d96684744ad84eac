package config

import (
	"github.com/af-corp/converse-gateway/internal/tone"
	"github.com/af-corp/converse-gateway/internal/types"
)

// ModelsConfig is the model catalog file. Order matters: /v1/models lists
// models in file order.
type ModelsConfig struct {
	Default string               `yaml:"default"`
	Models  []*types.ModelConfig `yaml:"models"`
}

// TonesConfig is the writing-style catalog file.
type TonesConfig struct {
	Tones []*tone.Tone `yaml:"tones"`
}
