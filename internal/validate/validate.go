// Package validate enforces every structural and semantic invariant of an
// inbound chat request before any network call is made. All violations are
// reported as CRITICAL PipelineErrors carrying machine-readable metadata so
// callers can render precise feedback without parsing message text.
package validate

import (
	"fmt"
	"strings"

	"github.com/af-corp/converse-gateway/internal/types"
)

const (
	MaxMessages     = 100
	MaxTextChars    = 100_000
	MaxPromptChars  = 10_000
	MinTemperature  = 0.0
	MaxTemperature  = 2.0
	MinVoiceRate    = 0.5
	MaxVoiceRate    = 2.0
	MinVoicePitch   = -50.0
	MaxVoicePitch   = 50.0
	MaxRequestBytes = 10 << 20
)

var reasoningEfforts = map[string]bool{
	"minimal": true,
	"low":     true,
	"medium":  true,
	"high":    true,
}

var verbosities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

var imageDetails = map[string]bool{
	"auto": true,
	"low":  true,
	"high": true,
}

// ChatRequest checks every rule on the request and returns a single
// VALIDATION_FAILED error accumulating all violations, or nil when the
// request is clean. Rules run in a fixed order; none are skipped on failure
// so the caller sees the complete picture in one round trip.
func ChatRequest(req *types.ChatRequest) error {
	if req == nil {
		return types.NewValidationError("Request body is required", nil)
	}

	var errs []string
	md := map[string]any{}

	if req.Model == "" {
		errs = append(errs, "Model is required")
	}

	errs = append(errs, validateMessages(req.Messages, md)...)

	if req.Temperature != nil && (*req.Temperature < MinTemperature || *req.Temperature > MaxTemperature) {
		errs = append(errs, "Temperature must be between 0 and 2")
	}
	if len(req.Prompt) > MaxPromptChars {
		errs = append(errs, fmt.Sprintf("Prompt must be at most %d characters", MaxPromptChars))
	}
	if req.ReasoningEffort != "" && !reasoningEfforts[req.ReasoningEffort] {
		errs = append(errs, fmt.Sprintf("Invalid reasoning effort: %q", req.ReasoningEffort))
	}
	if req.Verbosity != "" && !verbosities[req.Verbosity] {
		errs = append(errs, fmt.Sprintf("Invalid verbosity: %q", req.Verbosity))
	}
	if req.SearchMode != "" && req.SearchMode != types.SearchModeOff && req.SearchMode != types.SearchModeIntelligent {
		errs = append(errs, fmt.Sprintf("Invalid search mode: %q", req.SearchMode))
	}

	if req.Voice != nil {
		if req.Voice.Rate != nil && (*req.Voice.Rate < MinVoiceRate || *req.Voice.Rate > MaxVoiceRate) {
			errs = append(errs, "Rate must be between 0.5 and 2.0")
		}
		if req.Voice.Pitch != nil && (*req.Voice.Pitch < MinVoicePitch || *req.Voice.Pitch > MaxVoicePitch) {
			errs = append(errs, "Pitch must be between -50 and 50")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	md["validationErrors"] = errs
	return types.NewValidationError(strings.Join(errs, "; "), md)
}

func validateMessages(messages []types.Message, md map[string]any) []string {
	var errs []string

	if len(messages) == 0 {
		return []string{"At least one message is required"}
	}
	if len(messages) > MaxMessages {
		errs = append(errs, fmt.Sprintf("Too many messages (maximum %d)", MaxMessages))
	}

	for i, m := range messages {
		switch m.Role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			errs = append(errs, fmt.Sprintf("Invalid role %q in message %d", m.Role, i))
		}

		if !m.Content.IsParts() {
			if len(m.Content.Text) > MaxTextChars {
				errs = append(errs, fmt.Sprintf("Message %d exceeds %d characters", i, MaxTextChars))
			}
			continue
		}

		for j, p := range m.Content.Parts {
			switch p.Type {
			case types.PartText:
				if len(p.Text) > MaxTextChars {
					errs = append(errs, fmt.Sprintf("Text part %d of message %d exceeds %d characters", j, i, MaxTextChars))
				}
			case types.PartImageURL:
				if p.ImageURL == nil || p.ImageURL.URL == "" {
					errs = append(errs, fmt.Sprintf("Image part %d of message %d is missing a url", j, i))
					continue
				}
				if p.ImageURL.Detail != "" && !imageDetails[p.ImageURL.Detail] {
					errs = append(errs, fmt.Sprintf("Invalid image detail %q in message %d", p.ImageURL.Detail, i))
				}
				if !IsValidFileURL(p.ImageURL.URL) {
					errs = append(errs, fmt.Sprintf("Image URL is not allowed: %s", p.ImageURL.URL))
					md["fileUrl"] = p.ImageURL.URL
				}
			case types.PartFileURL:
				if p.FileURL == nil || p.FileURL.URL == "" {
					errs = append(errs, fmt.Sprintf("File part %d of message %d is missing a url", j, i))
					continue
				}
				if !IsValidFileURL(p.FileURL.URL) {
					errs = append(errs, fmt.Sprintf("File URL is not allowed: %s", p.FileURL.URL))
					md["fileUrl"] = p.FileURL.URL
				}
			default:
				errs = append(errs, fmt.Sprintf("Unsupported content part type %q in message %d", p.Type, i))
			}
		}
	}

	return errs
}

// SanitizeString strips NUL bytes, trims surrounding whitespace, and
// truncates to maxLen runes. A maxLen of zero or less means no truncation.
func SanitizeString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return s
}
