// Package dispatch routes a validated chat turn to the single authoritative
// backend path and normalizes every outcome to one stream contract.
package dispatch

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/af-corp/converse-gateway/internal/provider"
	"github.com/af-corp/converse-gateway/internal/stream"
	"github.com/af-corp/converse-gateway/internal/telemetry"
	"github.com/af-corp/converse-gateway/internal/tone"
	"github.com/af-corp/converse-gateway/internal/types"
)

// Options carries the per-call knobs of one chat turn alongside the
// messages.
type Options struct {
	Prompt          string
	Temperature     *float64
	Stream          bool
	BotID           string
	SearchMode      types.SearchMode
	ReasoningEffort string
	Verbosity       string
	ThreadID        string
	ForcedAgentType string
	User            *types.UserIdentity
	Tone            *tone.Tone
}

// Service is the dispatcher. It holds no per-request state, performs no I/O
// beyond invoking the chosen path, and propagates handler errors unchanged:
// no retry, no fallback.
type Service struct {
	azureClient    provider.CompletionClient
	standardClient provider.CompletionClient
	agent          *provider.AgentHandler
	audio          provider.AudioService
	bots           provider.BotService
	search         SearchClient
	logger         *ChatLogger
	metrics        *telemetry.Metrics
}

func NewService(azureClient, standardClient provider.CompletionClient, agent *provider.AgentHandler, audio provider.AudioService, bots provider.BotService, search SearchClient, logger *ChatLogger, metrics *telemetry.Metrics) *Service {
	if logger == nil {
		logger = NewChatLogger(slog.Default())
	}
	return &Service{
		azureClient:    azureClient,
		standardClient: standardClient,
		agent:          agent,
		audio:          audio,
		bots:           bots,
		search:         search,
		logger:         logger,
		metrics:        metrics,
	}
}

// Classify picks the routing decision for one turn. The predicate chain is
// strict and order-dependent: the first matching rule wins and no lower rule
// is consulted.
func Classify(model *types.ModelConfig, messages []types.Message, opts Options) types.RoutingDecision {
	if hasAudioVideoPart(messages) {
		return types.RouteAudio
	}
	if opts.BotID != "" {
		return types.RouteBot
	}
	if model != nil && model.AzureAgentMode && model.AgentID != "" {
		return types.RouteAgent
	}
	if (model != nil && model.SearchModeEnabled) || opts.ForcedAgentType != "" {
		return types.RouteToolAwareSearch
	}
	return types.RouteStandard
}

// Chat classifies the turn and delegates to the matching path. Validation
// has already happened; nothing here re-orders or parallelizes the
// validate-classify-call sequence.
func (s *Service) Chat(ctx context.Context, model *types.ModelConfig, messages []types.Message, opts Options) (*stream.Stream, error) {
	started := time.Now()
	route := Classify(model, messages, opts)

	// Agent mode without an agentId falls through silently by design, but
	// it usually means a misconfigured catalog entry, so leave a trace.
	if model != nil && model.AzureAgentMode && model.AgentID == "" && route != types.RouteAudio && route != types.RouteBot {
		s.logger.AgentFallthrough(model, route)
		if s.metrics != nil {
			s.metrics.RecordAgentFallthrough(model.ID)
		}
	}

	out, err := s.dispatch(ctx, route, model, messages, opts)
	if err != nil {
		s.logger.Failure(route, model, len(messages), opts, err)
		if s.metrics != nil {
			s.metrics.RecordRoute(route.String(), modelID(model), "error")
		}
		return nil, err
	}

	s.logger.Success(route, model, len(messages), opts, time.Since(started))
	if s.metrics != nil {
		s.metrics.RecordRoute(route.String(), modelID(model), "ok")
	}
	return out, nil
}

func (s *Service) dispatch(ctx context.Context, route types.RoutingDecision, model *types.ModelConfig, messages []types.Message, opts Options) (*stream.Stream, error) {
	switch route {
	case types.RouteAudio:
		return s.audio.Chat(ctx, model, messages, opts.BotID)

	case types.RouteBot:
		return s.bots.Chat(ctx, model, messages, opts.BotID)

	case types.RouteAgent:
		return s.agent.Invoke(ctx, model, messages, provider.AgentOptions{
			Temperature: opts.Temperature,
			ThreadID:    opts.ThreadID,
			BotID:       opts.BotID,
			User:        opts.User,
			Attempt:     1,
		})

	case types.RouteToolAwareSearch:
		return s.search.Search(ctx, model, messages, opts)

	default:
		return s.standardCompletion(ctx, model, messages, opts)
	}
}

func (s *Service) standardCompletion(ctx context.Context, model *types.ModelConfig, messages []types.Message, opts Options) (*stream.Stream, error) {
	handler, err := provider.GetHandler(model, s.azureClient, s.standardClient)
	if err != nil {
		return nil, err
	}

	systemPrompt := tone.Apply(opts.Tone, opts.Prompt)
	prepared := handler.PrepareMessages(messages, systemPrompt, model)
	modelID := handler.ModelIDForRequest(model.ID, model)
	params := handler.BuildRequestParams(modelID, prepared, opts.Temperature, opts.User, opts.Stream, model, opts.ReasoningEffort, opts.Verbosity)

	return handler.CreateCompletion(ctx, params)
}

func modelID(model *types.ModelConfig) string {
	if model == nil {
		return ""
	}
	return model.ID
}

// Extensions that force the audio/video path.
var audioVideoExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true, ".flac": true, ".aac": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".wmv": true,
}

func hasAudioVideoPart(messages []types.Message) bool {
	for _, m := range messages {
		if !m.Content.IsParts() {
			continue
		}
		for _, p := range m.Content.Parts {
			if p.Type != types.PartFileURL || p.FileURL == nil {
				continue
			}
			if isAudioVideoMediaType(p.FileURL.MediaType) {
				return true
			}
			if audioVideoExtensions[fileExtension(p.FileURL.URL)] {
				return true
			}
		}
	}
	return false
}

func isAudioVideoMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "audio/") || strings.HasPrefix(mediaType, "video/")
}

// fileExtension extracts the lowercase extension from a URL path, ignoring
// query strings and fragments.
func fileExtension(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return strings.ToLower(path.Ext(rawURL))
}
