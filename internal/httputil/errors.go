package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/af-corp/converse-gateway/internal/types"
)

// APIError is the JSON body returned for every failed request.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, message, details, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIError{
		Error:   message,
		Details: details,
		Code:    code,
	})
}

// WritePipelineError maps a pipeline error to its HTTP status. Configuration
// and provider failures are deliberately flattened to a generic 500 so that
// internal detail (deployment names, upstream hosts) never leaks to clients.
func WritePipelineError(w http.ResponseWriter, requestID string, err error) {
	var perr *types.PipelineError
	if !errors.As(err, &perr) {
		WriteInternalError(w, requestID, "An unexpected error occurred")
		return
	}

	switch perr.Code {
	case types.CodeValidationFailed, types.CodeBadRequest:
		WriteError(w, requestID, http.StatusBadRequest, perr.Message, "", string(perr.Code))
	case types.CodeUnauthorized:
		WriteError(w, requestID, http.StatusUnauthorized, perr.Message, "", string(perr.Code))
	case types.CodeForbidden:
		WriteError(w, requestID, http.StatusForbidden, perr.Message, "", string(perr.Code))
	case types.CodeNotFound:
		WriteError(w, requestID, http.StatusNotFound, perr.Message, "", string(perr.Code))
	case types.CodePayloadTooLarge:
		WriteError(w, requestID, http.StatusRequestEntityTooLarge, perr.Message, "", string(perr.Code))
	default:
		WriteInternalError(w, requestID, "An unexpected error occurred")
	}
}

func WriteAuthError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusUnauthorized, message, "", string(types.CodeUnauthorized))
}

func WriteRateLimitError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusTooManyRequests, message, "", "RATE_LIMITED")
}

func WriteBadRequestError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadRequest, message, "", string(types.CodeBadRequest))
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, message, "", "")
}
