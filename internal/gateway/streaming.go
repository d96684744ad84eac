package gateway

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/af-corp/converse-gateway/internal/httputil"
	"github.com/af-corp/converse-gateway/internal/stream"
)

// streamResponse copies the response text to the client chunk by chunk and
// appends the metadata trailer after the body. Headers are committed before
// the first byte, so provider failures mid-stream can only truncate, never
// change the status.
func streamResponse(w http.ResponseWriter, reqID string, out *stream.Stream) {
	defer out.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, reqID, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	reader := out.Reader()
	buf := make([]byte, 32*1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				// Client went away; drain nothing further.
				return
			}
			flusher.Flush()
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.Error("error reading response stream", "error", err, "request_id", reqID)
			return
		}
	}
}
