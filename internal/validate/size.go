package validate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/af-corp/converse-gateway/internal/types"
)

// SizeFetcher resolves the byte size of a remote file. Implementations
// typically issue a HEAD request against blob storage.
type SizeFetcher func(ctx context.Context, fileURL string) (int64, error)

// RequestSize reports whether obj serializes to at most maxBytes. Anything
// that cannot be serialized (circular references and the like) counts as
// invalid rather than an error.
func RequestSize(obj any, maxBytes int) bool {
	data, err := json.Marshal(obj)
	if err != nil {
		return false
	}
	return len(data) <= maxBytes
}

// FileSize resolves the actual size of fileURL through fetch and rejects
// files over maxBytes. The error message and metadata carry the exact actual
// and allowed sizes; a failing fetcher is wrapped into the same error kind
// rather than propagated raw.
func FileSize(ctx context.Context, fileURL string, user *types.UserIdentity, fetch SizeFetcher, maxBytes int64) error {
	size, err := fetch(ctx, fileURL)
	if err != nil {
		return types.NewValidationError(
			fmt.Sprintf("Unable to determine file size for %s: %v", fileURL, err),
			map[string]any{"fileUrl": fileURL},
		)
	}

	if size > maxBytes {
		return &types.PipelineError{
			Code:     types.CodePayloadTooLarge,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("File is %d bytes, maximum allowed is %d bytes", size, maxBytes),
			Metadata: map[string]any{
				"fileUrl":  fileURL,
				"fileSize": size,
				"maxSize":  maxBytes,
				"user":     user.AuditBlob(),
			},
		}
	}
	return nil
}
