package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/af-corp/converse-gateway/internal/types"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, "req_123", http.StatusBadRequest, "test message", "more detail", "BAD_REQUEST")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	if rid := w.Header().Get("X-Request-ID"); rid != "req_123" {
		t.Errorf("expected X-Request-ID req_123, got %s", rid)
	}

	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Error != "test message" {
		t.Errorf("expected error 'test message', got %q", resp.Error)
	}
	if resp.Details != "more detail" {
		t.Errorf("expected details 'more detail', got %q", resp.Details)
	}
	if resp.Code != "BAD_REQUEST" {
		t.Errorf("expected code 'BAD_REQUEST', got %q", resp.Code)
	}
}

func TestWritePipelineErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code       types.ErrorCode
		wantStatus int
	}{
		{types.CodeValidationFailed, http.StatusBadRequest},
		{types.CodeBadRequest, http.StatusBadRequest},
		{types.CodeUnauthorized, http.StatusUnauthorized},
		{types.CodeForbidden, http.StatusForbidden},
		{types.CodeNotFound, http.StatusNotFound},
		{types.CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{types.CodeConfigurationError, http.StatusInternalServerError},
		{types.CodeProviderError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		WritePipelineError(w, "req_1", &types.PipelineError{
			Code: tc.code, Severity: types.SeverityCritical, Message: "boom",
		})
		if w.Code != tc.wantStatus {
			t.Errorf("%s: expected status %d, got %d", tc.code, tc.wantStatus, w.Code)
		}
	}
}

func TestWritePipelineErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WritePipelineError(w, "req_1", types.NewConfigurationError("deployment gpt4o-prod is missing"))

	var resp APIError
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "An unexpected error occurred" {
		t.Errorf("configuration detail leaked: %q", resp.Error)
	}
}

func TestWritePipelineErrorNonPipeline(t *testing.T) {
	w := httptest.NewRecorder()
	WritePipelineError(w, "req_1", errors.New("plain error"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestWriteAuthError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAuthError(w, "req_456", "Invalid key")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}

	var resp APIError
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != "UNAUTHORIZED" {
		t.Errorf("expected code 'UNAUTHORIZED', got %q", resp.Code)
	}
}
