package tone

import (
	"strings"
	"testing"
)

func TestApplyNilTone(t *testing.T) {
	if got := Apply(nil, "P"); got != "P" {
		t.Errorf("Apply(nil) = %q, want prompt unchanged", got)
	}
}

func TestApplyEmptyRules(t *testing.T) {
	if got := Apply(&Tone{VoiceRules: ""}, "P"); got != "P" {
		t.Errorf("empty rules: got %q, want %q", got, "P")
	}
	if got := Apply(&Tone{VoiceRules: "   \n"}, "P"); got != "P" {
		t.Errorf("whitespace rules: got %q, want %q", got, "P")
	}
}

func TestApplyAppendsSection(t *testing.T) {
	got := Apply(&Tone{VoiceRules: "X"}, "P")
	if !strings.Contains(got, "P") {
		t.Error("original prompt dropped")
	}
	if !strings.Contains(got, "X") {
		t.Error("voice rules missing")
	}
	if !strings.Contains(got, "# Writing Style") {
		t.Error("heading missing")
	}
	if !strings.HasPrefix(got, "P") {
		t.Errorf("tone must append after the prompt, got %q", got)
	}
}

func TestApplyExamples(t *testing.T) {
	got := Apply(&Tone{
		VoiceRules: "Be brisk.",
		Examples:   []string{"Short and sharp.", "No filler."},
	}, "P")
	if !strings.Contains(got, "## Examples") {
		t.Error("examples section missing")
	}
	if !strings.Contains(got, "- Short and sharp.") {
		t.Errorf("example bullet missing, got %q", got)
	}
}

func TestApplyNotCumulative(t *testing.T) {
	base := "P"
	first := Apply(&Tone{VoiceRules: "formal"}, base)
	second := Apply(&Tone{VoiceRules: "casual"}, base)

	if strings.Contains(second, "formal") {
		t.Error("second application must derive from the base prompt")
	}
	if strings.Count(first, "# Writing Style") != 1 || strings.Count(second, "# Writing Style") != 1 {
		t.Error("exactly one writing-style section per application")
	}
}
