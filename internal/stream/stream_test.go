package stream

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestAppendParseRoundTrip(t *testing.T) {
	meta := &Metadata{
		Citations: []Citation{
			{Title: "Quarterly report", URL: "https://docs.example.com/q3.pdf", Snippet: "Revenue grew"},
			{Title: "Handbook", URL: "https://docs.example.com/handbook.pdf"},
		},
		ThreadID: "t1",
	}

	r := AppendMetadata(strings.NewReader("The answer is 42."), meta)
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}

	text, parsed := ParseMetadata(body)
	if string(text) != "The answer is 42." {
		t.Errorf("visible text = %q, want trailer stripped", text)
	}
	if parsed == nil {
		t.Fatal("expected metadata, got nil")
	}
	if parsed.ThreadID != "t1" {
		t.Errorf("threadId = %q, want t1", parsed.ThreadID)
	}
	if len(parsed.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(parsed.Citations))
	}
	if parsed.Citations[0].Title != "Quarterly report" || parsed.Citations[0].Snippet != "Revenue grew" {
		t.Errorf("citation 0 mismatch: %+v", parsed.Citations[0])
	}
	if parsed.Citations[1].URL != "https://docs.example.com/handbook.pdf" {
		t.Errorf("citation 1 mismatch: %+v", parsed.Citations[1])
	}
}

func TestParseMetadataAbsentTrailer(t *testing.T) {
	text, meta := ParseMetadata([]byte("plain response, no trailer"))
	if meta != nil {
		t.Errorf("expected nil metadata, got %+v", meta)
	}
	if string(text) != "plain response, no trailer" {
		t.Errorf("text = %q", text)
	}
}

func TestParseMetadataMalformedTrailer(t *testing.T) {
	body := []byte("hello\n\n<<<METADATA_START>>>{not json<<<METADATA_END>>>")
	text, meta := ParseMetadata(body)
	if meta != nil {
		t.Errorf("expected nil metadata for malformed trailer, got %+v", meta)
	}
	if !bytes.Contains(text, []byte("hello")) {
		t.Errorf("text should be preserved, got %q", text)
	}
}

func TestAppendMetadataNil(t *testing.T) {
	r := AppendMetadata(strings.NewReader("abc"), nil)
	body, _ := io.ReadAll(r)
	if string(body) != "abc" {
		t.Errorf("nil metadata must not alter the stream, got %q", body)
	}
}

func TestStreamReaderWithMeta(t *testing.T) {
	s := FromText("done", &Metadata{ThreadID: "thread_9"})
	body, err := io.ReadAll(s.Reader())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text, meta := ParseMetadata(body)
	if string(text) != "done" {
		t.Errorf("text = %q", text)
	}
	if meta == nil || meta.ThreadID != "thread_9" {
		t.Errorf("meta = %+v", meta)
	}
}
