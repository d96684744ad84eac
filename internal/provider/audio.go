package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// AudioService handles turns carrying audio or video file parts. Thin glue
// over the multimodal completion endpoint; the dispatcher selects it before
// any other path.
type AudioService interface {
	Chat(ctx context.Context, model *types.ModelConfig, messages []types.Message, botID string) (*stream.Stream, error)
}

// HTTPAudioService posts the turn to the audio-capable endpoint.
type HTTPAudioService struct {
	cfg    ClientConfig
	client *http.Client
}

func NewHTTPAudioService(cfg ClientConfig) *HTTPAudioService {
	return &HTTPAudioService{cfg: cfg, client: newHTTPClient(cfg)}
}

type audioRequestBody struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	BotID    string          `json:"bot_id,omitempty"`
	Stream   bool            `json:"stream"`
}

func (s *HTTPAudioService) Chat(ctx context.Context, model *types.ModelConfig, messages []types.Message, botID string) (*stream.Stream, error) {
	body := audioRequestBody{
		Model:    model.ID,
		Messages: messages,
		BotID:    botID,
		Stream:   true,
	}
	resp, err := PostJSON(ctx, s.client, s.cfg.BaseURL+"/audio/chat", body, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, &types.PipelineError{
			Code:     types.CodeProviderError,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("audio provider returned status %d", resp.StatusCode),
			Metadata: map[string]any{"statusCode": resp.StatusCode},
		}
	}
	return &stream.Stream{Body: resp.Body}, nil
}
