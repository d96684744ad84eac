package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/types"
)

// BotService handles retrieval-augmented "bot" turns grounded on a document
// collection identified by botID.
type BotService interface {
	Chat(ctx context.Context, model *types.ModelConfig, messages []types.Message, botID string) (*stream.Stream, error)
}

// HTTPBotService posts the turn to the retrieval endpoint. Citations come
// back in a response header and are surfaced as stream metadata.
type HTTPBotService struct {
	cfg    ClientConfig
	client *http.Client
}

func NewHTTPBotService(cfg ClientConfig) *HTTPBotService {
	return &HTTPBotService{cfg: cfg, client: newHTTPClient(cfg)}
}

type botRequestBody struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	BotID    string          `json:"bot_id"`
	Stream   bool            `json:"stream"`
}

func (s *HTTPBotService) Chat(ctx context.Context, model *types.ModelConfig, messages []types.Message, botID string) (*stream.Stream, error) {
	body := botRequestBody{
		Model:    model.ID,
		Messages: messages,
		BotID:    botID,
		Stream:   true,
	}
	resp, err := PostJSON(ctx, s.client, s.cfg.BaseURL+"/bots/chat", body, func(req *http.Request) {
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
			Message:  fmt.Sprintf("bot provider returned status %d", resp.StatusCode),
			Metadata: map[string]any{"statusCode": resp.StatusCode},
		}
	}

	out := &stream.Stream{Body: resp.Body}
	if raw := resp.Header.Get("X-Citations"); raw != "" {
		var citations []stream.Citation
		if err := json.Unmarshal([]byte(raw), &citations); err == nil && len(citations) > 0 {
			out.Meta = &stream.Metadata{Citations: citations}
		}
	}
	return out, nil
}
