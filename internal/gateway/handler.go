package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/converse-gateway/internal/auth"
	"github.com/af-corp/converse-gateway/internal/catalog"
	"github.com/af-corp/converse-gateway/internal/config"
	"github.com/af-corp/converse-gateway/internal/dispatch"
	"github.com/af-corp/converse-gateway/internal/httputil"
	"github.com/af-corp/converse-gateway/internal/policy"
	"github.com/af-corp/converse-gateway/internal/telemetry"
	"github.com/af-corp/converse-gateway/internal/types"
	"github.com/af-corp/converse-gateway/internal/validate"
)

// Handler holds dependencies for the gateway HTTP handlers.
type Handler struct {
	dispatcher *dispatch.Service
	selector   func() *catalog.Selector
	cfg        func() *config.Config
	policies   *policy.Evaluator
	metrics    *telemetry.Metrics
}

func NewHandler(dispatcher *dispatch.Service, selector func() *catalog.Selector, cfg func() *config.Config, policies *policy.Evaluator, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		selector:   selector,
		cfg:        cfg,
		policies:   policies,
		metrics:    metrics,
	}
}

// Chat handles POST /v1/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	authInfo, ok := auth.AuthFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	maxBytes := h.cfg().Dispatch.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = validate.MaxRequestBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		httputil.WritePipelineError(w, reqID, &types.PipelineError{
			Code:     types.CodePayloadTooLarge,
			Severity: types.SeverityCritical,
			Message:  "Request body exceeds the maximum allowed size",
			Metadata: map[string]any{"maxSize": maxBytes},
		})
		return
	}
	defer r.Body.Close()

	var chatReq types.ChatRequest
	if err := json.Unmarshal(body, &chatReq); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}

	if err := validate.ChatRequest(&chatReq); err != nil {
		if h.metrics != nil {
			h.metrics.RecordValidationFailure(errorCode(err))
		}
		httputil.WritePipelineError(w, reqID, err)
		return
	}

	model, err := h.selector().Resolve(chatReq.Model)
	if err != nil {
		httputil.WritePipelineError(w, reqID, err)
		return
	}

	opts := dispatch.Options{
		Prompt:          chatReq.Prompt,
		Temperature:     chatReq.Temperature,
		Stream:          chatReq.StreamEnabled(),
		BotID:           chatReq.BotID,
		SearchMode:      chatReq.SearchMode,
		ReasoningEffort: chatReq.ReasoningEffort,
		Verbosity:       chatReq.Verbosity,
		ThreadID:        chatReq.ThreadID,
		ForcedAgentType: chatReq.ForcedAgentType,
		User:            authInfo.Identity(),
		Tone:            h.selector().Tone(chatReq.ToneID),
	}

	route := dispatch.Classify(model, chatReq.Messages, opts)

	if h.policies != nil {
		if err := h.policies.CheckModelAccess(r.Context(), authInfo, model, route.String(), chatReq.BotID); err != nil {
			slog.Warn("model access denied",
				"request_id", reqID,
				"model", model.ID,
				"user_id", authInfo.UserID,
			)
			httputil.WritePipelineError(w, reqID, err)
			return
		}
	}

	out, err := h.dispatcher.Chat(r.Context(), model, chatReq.Messages, opts)
	if err != nil {
		status := errorStatus(err)
		if h.metrics != nil {
			h.metrics.RecordRequest(model.ID, strconv.Itoa(status), opts.Stream, float64(time.Since(receivedAt).Milliseconds()), route.String())
		}
		httputil.WritePipelineError(w, reqID, err)
		return
	}

	streamResponse(w, reqID, out)

	totalDuration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"model", model.ID,
		"route", route.String(),
		"duration_ms", totalDuration.Milliseconds(),
		"status_code", http.StatusOK,
		"stream", opts.Stream,
		"user_id", authInfo.UserID,
	)
	if h.metrics != nil {
		h.metrics.RecordRequest(model.ID, "200", opts.Stream, float64(totalDuration.Milliseconds()), route.String())
	}
}

// ListModels handles GET /v1/models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	authInfo, ok := auth.AuthFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	var models []modelObject
	for _, m := range h.selector().List() {
		// Filter by allowed models if set
		if len(authInfo.AllowedModels) > 0 {
			allowed := false
			for _, id := range authInfo.AllowedModels {
				if id == m.ID {
					allowed = true
					break
				}
			}
			if !allowed {
				continue
			}
		}

		models = append(models, modelObject{
			ID:          m.ID,
			Object:      "model",
			DisplayName: m.DisplayName,
			OwnedBy:     "converse",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(modelListResponse{
		Object: "list",
		Data:   models,
	})
}

// Health handles GET /converse/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func errorCode(err error) string {
	if perr, ok := err.(*types.PipelineError); ok {
		return string(perr.Code)
	}
	return "UNKNOWN"
}

func errorStatus(err error) int {
	perr, ok := err.(*types.PipelineError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch perr.Code {
	case types.CodeValidationFailed, types.CodeBadRequest:
		return http.StatusBadRequest
	case types.CodeUnauthorized:
		return http.StatusUnauthorized
	case types.CodeForbidden:
		return http.StatusForbidden
	case types.CodeNotFound:
		return http.StatusNotFound
	case types.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

type modelObject struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	DisplayName string `json:"display_name,omitempty"`
	OwnedBy     string `json:"owned_by"`
}

type modelListResponse struct {
	Object string        `json:"object"`
	Data   []modelObject `json:"data"`
}
