// Package catalog resolves requested model identifiers against the static
// model catalog and applies upgrade/fallback rules. The catalog is injected
// explicitly so tests can swap it; there is no ambient global.
package catalog

import (
	"fmt"

	"github.com/af-corp/converse-gateway/internal/tone"
	"github.com/af-corp/converse-gateway/internal/types"
)

// Upper bound on replaced_by hops, so a miswired catalog cannot loop.
const maxUpgradeHops = 8

// Selector answers "which model does this request actually get".
type Selector struct {
	models       map[string]*types.ModelConfig
	order        []string
	tones        map[string]*tone.Tone
	defaultModel string
}

// New builds a selector over the given catalog entries. defaultModel, when
// non-empty, is served for unknown requested ids instead of failing.
func New(models []*types.ModelConfig, tones []*tone.Tone, defaultModel string) *Selector {
	s := &Selector{
		models:       make(map[string]*types.ModelConfig, len(models)),
		tones:        make(map[string]*tone.Tone, len(tones)),
		defaultModel: defaultModel,
	}
	for _, m := range models {
		if m == nil || m.ID == "" {
			continue
		}
		s.models[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	for _, t := range tones {
		if t == nil || t.ID == "" {
			continue
		}
		s.tones[t.ID] = t
	}
	return s
}

// Resolve maps a requested model id to its catalog entry, following
// replaced_by upgrade links. Unknown ids fall back to the default model when
// one is configured, otherwise a NOT_FOUND pipeline error is returned.
func (s *Selector) Resolve(requestedID string) (*types.ModelConfig, error) {
	id := requestedID
	if id == "" {
		id = s.defaultModel
	}

	m, ok := s.models[id]
	if !ok {
		if s.defaultModel != "" {
			if fallback, ok := s.models[s.defaultModel]; ok {
				return s.upgrade(fallback)
			}
		}
		return nil, types.NewNotFoundError(
			fmt.Sprintf("Unknown model: %s", requestedID),
			map[string]any{"model": requestedID},
		)
	}
	return s.upgrade(m)
}

func (s *Selector) upgrade(m *types.ModelConfig) (*types.ModelConfig, error) {
	for hops := 0; m.ReplacedBy != "" && hops < maxUpgradeHops; hops++ {
		next, ok := s.models[m.ReplacedBy]
		if !ok {
			return nil, types.NewConfigurationError(
				fmt.Sprintf("Model %s is replaced by unknown model %s", m.ID, m.ReplacedBy),
			)
		}
		m = next
	}
	if m.ReplacedBy != "" {
		return nil, types.NewConfigurationError(
			fmt.Sprintf("Model upgrade chain too deep starting at %s", m.ID),
		)
	}
	return m, nil
}

// Tone looks up a tone profile by id. A missing or empty id yields nil,
// which the tone layer treats as "no tone".
func (s *Selector) Tone(id string) *tone.Tone {
	if id == "" {
		return nil
	}
	return s.tones[id]
}

// List returns the catalog entries in their configured order.
func (s *Selector) List() []*types.ModelConfig {
	out := make([]*types.ModelConfig, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.models[id])
	}
	return out
}
