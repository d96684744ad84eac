// Package stream defines the one normalized response contract every provider
// handler reduces to: a byte stream of response text plus out-of-band
// metadata appended as a delimited trailer.
package stream

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

const (
	trailerStart = "<<<METADATA_START>>>"
	trailerEnd   = "<<<METADATA_END>>>"
	trailerSep   = "\n\n"
)

// Metadata is the out-of-band payload carried after the primary text stream.
type Metadata struct {
	Citations []Citation `json:"citations,omitempty"`
	ThreadID  string     `json:"threadId,omitempty"`
	Thinking  string     `json:"thinking,omitempty"`
}

// Citation references a source document used to ground a response.
type Citation struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Stream is a normalized provider response: the text body plus any metadata
// the provider returned out of band. The dispatcher owns it for the lifetime
// of the HTTP response.
type Stream struct {
	Body io.ReadCloser
	Meta *Metadata
}

// FromText builds a non-streamed Stream over a fixed string.
func FromText(text string, meta *Metadata) *Stream {
	return &Stream{
		Body: io.NopCloser(strings.NewReader(text)),
		Meta: meta,
	}
}

// Close releases the underlying body.
func (s *Stream) Close() error {
	if s == nil || s.Body == nil {
		return nil
	}
	return s.Body.Close()
}

// Reader returns the full wire form: the body followed, when metadata is
// present, by the delimited trailer. Consumers strip the trailer before
// display; its absence means "no metadata".
func (s *Stream) Reader() io.Reader {
	if s.Meta == nil {
		return s.Body
	}
	return AppendMetadata(s.Body, s.Meta)
}

// AppendMetadata appends the trailer form of meta after r. A nil meta leaves
// the reader untouched.
func AppendMetadata(r io.Reader, meta *Metadata) io.Reader {
	if meta == nil {
		return r
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		// Metadata is never worth corrupting the text stream for.
		return r
	}
	trailer := trailerSep + trailerStart + string(payload) + trailerEnd
	return io.MultiReader(r, strings.NewReader(trailer))
}

// ParseMetadata splits a complete response body into visible text and the
// trailer metadata. A body without a trailer yields the text unchanged and a
// nil Metadata; a malformed trailer is treated the same way rather than
// failing the whole response.
func ParseMetadata(body []byte) ([]byte, *Metadata) {
	start := bytes.LastIndex(body, []byte(trailerStart))
	if start < 0 {
		return body, nil
	}
	end := bytes.LastIndex(body, []byte(trailerEnd))
	if end < start {
		return body, nil
	}

	payload := body[start+len(trailerStart) : end]
	var meta Metadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return body, nil
	}

	text := body[:start]
	text = bytes.TrimSuffix(text, []byte(trailerSep))
	return text, &meta
}
