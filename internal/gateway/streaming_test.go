package gateway

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/af-corp/converse-gateway/internal/stream"
)

func TestStreamResponse_PlainText(t *testing.T) {
	w := httptest.NewRecorder()
	streamResponse(w, "test-req-123", stream.FromText("Hello world", nil))

	if w.Code != 200 {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
	if w.Header().Get("X-Request-ID") != "test-req-123" {
		t.Errorf("expected X-Request-ID test-req-123, got %s", w.Header().Get("X-Request-ID"))
	}

	if w.Body.String() != "Hello world" {
		t.Errorf("body = %q, want plain text without trailer", w.Body.String())
	}
}

func TestStreamResponse_MetadataTrailer(t *testing.T) {
	meta := &stream.Metadata{
		ThreadID: "t_123",
		Citations: []stream.Citation{
			{Title: "Doc", URL: "https://example.com/doc"},
		},
	}

	w := httptest.NewRecorder()
	streamResponse(w, "test-req-456", stream.FromText("Answer text", meta))

	body := w.Body.Bytes()
	if !strings.HasPrefix(string(body), "Answer text") {
		t.Errorf("body should start with response text, got %q", body)
	}

	text, parsed := stream.ParseMetadata(body)
	if string(text) != "Answer text" {
		t.Errorf("parsed text = %q", text)
	}
	if parsed == nil || parsed.ThreadID != "t_123" {
		t.Fatalf("trailer metadata not round-tripped: %+v", parsed)
	}
	if len(parsed.Citations) != 1 || parsed.Citations[0].URL != "https://example.com/doc" {
		t.Errorf("citations not round-tripped: %+v", parsed.Citations)
	}
}

func TestStreamResponse_EmptyBodyWithMetadata(t *testing.T) {
	w := httptest.NewRecorder()
	streamResponse(w, "test-req-789", stream.FromText("", &stream.Metadata{ThreadID: "t_9"}))

	_, parsed := stream.ParseMetadata(w.Body.Bytes())
	if parsed == nil || parsed.ThreadID != "t_9" {
		t.Errorf("metadata lost on empty body: %+v", parsed)
	}
}
