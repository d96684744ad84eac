// Package tone augments system prompts with a voice/tone profile. Pure
// string work, no dependencies.
package tone

import "strings"

// Tone is one voice profile from the tone catalog (tones.yaml).
type Tone struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	VoiceRules string   `yaml:"voice_rules" json:"voice_rules"`
	Examples   []string `yaml:"examples,omitempty" json:"examples,omitempty"`
}

// Apply appends the tone's writing-style section after the system prompt.
// The prompt is returned unchanged when no tone is given or its rules are
// empty. The section is always appended, never substituted, and each call
// derives from the base prompt so tones never accumulate across calls.
func Apply(t *Tone, systemPrompt string) string {
	if t == nil || strings.TrimSpace(t.VoiceRules) == "" {
		return systemPrompt
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n# Writing Style\n")
	b.WriteString(t.VoiceRules)

	if len(t.Examples) > 0 {
		b.WriteString("\n\n## Examples\n")
		for _, ex := range t.Examples {
			b.WriteString("- ")
			b.WriteString(ex)
			b.WriteString("\n")
		}
	}
	return b.String()
}
