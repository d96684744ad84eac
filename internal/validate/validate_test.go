package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/af-corp/converse-gateway/internal/types"
)

func floatPtr(f float64) *float64 { return &f }

func baseRequest() *types.ChatRequest {
	return &types.ChatRequest{
		Model: "gpt-4o",
		Messages: []types.Message{
			{Role: types.RoleUser, Content: types.MessageContent{Text: "hello"}},
		},
	}
}

func pipelineErr(t *testing.T, err error) *types.PipelineError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *types.PipelineError, got %T", err)
	}
	return pe
}

func TestChatRequestValid(t *testing.T) {
	if err := ChatRequest(baseRequest()); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestChatRequestEmptyMessages(t *testing.T) {
	req := baseRequest()
	req.Messages = nil

	pe := pipelineErr(t, ChatRequest(req))
	if pe.Code != types.CodeValidationFailed {
		t.Errorf("code = %s, want VALIDATION_FAILED", pe.Code)
	}
	if pe.Severity != types.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", pe.Severity)
	}
	if !strings.Contains(pe.Message, "At least one message") {
		t.Errorf("message = %q, want mention of 'At least one message'", pe.Message)
	}
}

func TestChatRequestTooManyMessages(t *testing.T) {
	req := baseRequest()
	for i := 0; i < MaxMessages; i++ {
		req.Messages = append(req.Messages, types.Message{
			Role: types.RoleUser, Content: types.MessageContent{Text: "x"},
		})
	}

	pe := pipelineErr(t, ChatRequest(req))
	if !strings.Contains(pe.Message, "Too many messages") {
		t.Errorf("message = %q", pe.Message)
	}
}

func TestChatRequestTemperatureBounds(t *testing.T) {
	cases := []struct {
		temp float64
		ok   bool
	}{
		{-0.1, false},
		{0, true},
		{1.3, true},
		{2.0, true},
		{2.1, false},
	}
	for _, tc := range cases {
		req := baseRequest()
		req.Temperature = floatPtr(tc.temp)
		err := ChatRequest(req)
		if tc.ok && err != nil {
			t.Errorf("temperature %v rejected: %v", tc.temp, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("temperature %v accepted, want rejection", tc.temp)
		}
	}
}

func TestChatRequestInvalidRole(t *testing.T) {
	req := baseRequest()
	req.Messages[0].Role = "tool"

	pe := pipelineErr(t, ChatRequest(req))
	if !strings.Contains(pe.Message, `Invalid role "tool"`) {
		t.Errorf("message = %q", pe.Message)
	}
}

func TestChatRequestLongText(t *testing.T) {
	req := baseRequest()
	req.Messages[0].Content.Text = strings.Repeat("a", MaxTextChars+1)

	if err := ChatRequest(req); err == nil {
		t.Error("oversized text accepted")
	}
}

func TestChatRequestLongPrompt(t *testing.T) {
	req := baseRequest()
	req.Prompt = strings.Repeat("p", MaxPromptChars+1)

	if err := ChatRequest(req); err == nil {
		t.Error("oversized prompt accepted")
	}
}

func TestChatRequestReasoningEffortAndVerbosity(t *testing.T) {
	req := baseRequest()
	req.ReasoningEffort = "medium"
	req.Verbosity = "high"
	if err := ChatRequest(req); err != nil {
		t.Errorf("valid effort/verbosity rejected: %v", err)
	}

	req.ReasoningEffort = "extreme"
	if err := ChatRequest(req); err == nil {
		t.Error("invalid reasoning effort accepted")
	}

	req.ReasoningEffort = "minimal"
	req.Verbosity = "verbose"
	if err := ChatRequest(req); err == nil {
		t.Error("invalid verbosity accepted")
	}
}

func TestChatRequestVoiceBounds(t *testing.T) {
	req := baseRequest()
	req.Voice = &types.VoiceSettings{Rate: floatPtr(0.4)}
	pe := pipelineErr(t, ChatRequest(req))
	if !strings.Contains(pe.Message, "Rate must be between 0.5 and 2.0") {
		t.Errorf("message = %q", pe.Message)
	}

	req.Voice = &types.VoiceSettings{Pitch: floatPtr(51)}
	pe = pipelineErr(t, ChatRequest(req))
	if !strings.Contains(pe.Message, "Pitch must be between -50 and 50") {
		t.Errorf("message = %q", pe.Message)
	}

	req.Voice = &types.VoiceSettings{Rate: floatPtr(2.0), Pitch: floatPtr(-50)}
	if err := ChatRequest(req); err != nil {
		t.Errorf("boundary voice settings rejected: %v", err)
	}
}

func TestChatRequestDisallowedFileURL(t *testing.T) {
	req := baseRequest()
	req.Messages[0].Content = types.MessageContent{Parts: []types.ContentPart{
		{Type: types.PartText, Text: "summarize this"},
		{Type: types.PartFileURL, FileURL: &types.FileURLPart{URL: "https://evil.com/x.pdf"}},
	}}

	pe := pipelineErr(t, ChatRequest(req))
	if !strings.Contains(pe.Message, "File URL is not allowed") {
		t.Errorf("message = %q", pe.Message)
	}
	if pe.Metadata["fileUrl"] != "https://evil.com/x.pdf" {
		t.Errorf("metadata fileUrl = %v", pe.Metadata["fileUrl"])
	}
}

func TestChatRequestAccumulatesErrors(t *testing.T) {
	req := baseRequest()
	req.Model = ""
	req.Temperature = floatPtr(3)

	pe := pipelineErr(t, ChatRequest(req))
	list, ok := pe.Metadata["validationErrors"].([]string)
	if !ok {
		t.Fatalf("validationErrors metadata missing: %+v", pe.Metadata)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 accumulated errors, got %d: %v", len(list), list)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Hello World  ", 0); got != "Hello World" {
		t.Errorf("trim: got %q", got)
	}
	if got := SanitizeString("Hello\x00World", 0); got != "HelloWorld" {
		t.Errorf("nul strip: got %q", got)
	}
	if got := SanitizeString(strings.Repeat("a", 20000), 100); len(got) != 100 {
		t.Errorf("truncate: got length %d, want 100", len(got))
	}
}

func TestIsValidFileURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://evil.com/x.pdf", false},
		{"http://localhost:3000/x.pdf", true},
		{"javascript:alert(1)", false},
		{"https://myaccount.blob.core.windows.net/files/report.pdf", true},
		{"https://bucket.s3.amazonaws.com/doc.pdf", true},
		{"http://127.0.0.1:8080/dev.wav", true},
		{"http://10.0.0.5/internal.pdf", false},
		{"http://192.168.1.1/router.cfg", false},
		{"ftp://myaccount.blob.core.windows.net/x", false},
		{"not a url at all ://", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidFileURL(tc.url); got != tc.want {
			t.Errorf("IsValidFileURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
