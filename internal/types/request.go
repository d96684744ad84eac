package types

import (
	"encoding/json"
	"fmt"
)

// Message roles accepted on inbound requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Content part types.
const (
	PartText     = "text"
	PartImageURL = "image_url"
	PartFileURL  = "file_url"
)

// SearchMode controls the tool-aware search path.
type SearchMode string

const (
	SearchModeOff         SearchMode = "OFF"
	SearchModeIntelligent SearchMode = "INTELLIGENT"
)

// ChatRequest is the canonical representation of an inbound chat turn.
// It is immutable after validation and discarded once the response stream
// completes.
type ChatRequest struct {
	Model           string         `json:"model"`
	Messages        []Message      `json:"messages"`
	Prompt          string         `json:"prompt,omitempty"`
	Temperature     *float64       `json:"temperature,omitempty"`
	Stream          *bool          `json:"stream,omitempty"`
	BotID           string         `json:"botId,omitempty"`
	SearchMode      SearchMode     `json:"searchMode,omitempty"`
	ReasoningEffort string         `json:"reasoningEffort,omitempty"`
	Verbosity       string         `json:"verbosity,omitempty"`
	ThreadID        string         `json:"threadId,omitempty"`
	ForcedAgentType string         `json:"forcedAgentType,omitempty"`
	ToneID          string         `json:"toneId,omitempty"`
	Voice           *VoiceSettings `json:"voice,omitempty"`
}

// StreamEnabled reports whether the caller asked for a streamed response.
// Streaming is the default when the field is omitted.
func (r *ChatRequest) StreamEnabled() bool {
	return r.Stream == nil || *r.Stream
}

// VoiceSettings is the voice-shaped request variant carrying speech tuning.
type VoiceSettings struct {
	Rate  *float64 `json:"rate,omitempty"`
	Pitch *float64 `json:"pitch,omitempty"`
}

// Message is a single conversation turn. Content is either a plain string or
// an ordered list of typed parts; both wire shapes decode into MessageContent.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
	Name    string         `json:"name,omitempty"`
}

// MessageContent holds either plain text or typed content parts.
type MessageContent struct {
	Text  string
	Parts []ContentPart
}

// IsParts reports whether the content uses the typed-parts shape.
func (c MessageContent) IsParts() bool { return c.Parts != nil }

// PlainText returns the textual content: the text itself for string content,
// or the concatenation of text parts for part-shaped content.
func (c MessageContent) PlainText() string {
	if !c.IsParts() {
		return c.Text
	}
	var out string
	for _, p := range c.Parts {
		if p.Type == PartText {
			out += p.Text
		}
	}
	return out
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.IsParts() {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		c.Parts = nil
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		c.Parts = parts
		c.Text = ""
		return nil
	}
	return fmt.Errorf("message content must be a string or an array of parts")
}

// ContentPart is one typed element of a part-shaped message.
type ContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *ImageURLPart `json:"image_url,omitempty"`
	FileURL  *FileURLPart  `json:"file_url,omitempty"`
}

type ImageURLPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type FileURLPart struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type,omitempty"`
}

// UserIdentity is the already-authenticated caller identity handed to the
// handler layer for audit trails. Session issuance lives outside this core.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AuditBlob serializes the identity to the string form providers accept in
// their user field.
func (u *UserIdentity) AuditBlob() string {
	if u == nil {
		return ""
	}
	b, err := json.Marshal(u)
	if err != nil {
		return u.ID
	}
	return string(b)
}
