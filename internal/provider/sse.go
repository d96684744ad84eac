package provider

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// newSSETextReader converts an OpenAI-style SSE chat completion stream into
// a plain text stream of content deltas. Non-content events are dropped;
// the [DONE] sentinel ends the stream.
func newSSETextReader(body io.ReadCloser) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var chunk completionChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// Skip malformed chunks rather than poisoning the stream.
				continue
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				if _, err := pw.Write([]byte(delta)); err != nil {
					return
				}
			}
		}
		pw.CloseWithError(scanner.Err())
	}()

	return pr
}

type completionChunk struct {
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}
