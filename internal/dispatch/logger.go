package dispatch

import (
	"log/slog"
	"time"

	"github.com/af-corp/converse-gateway/internal/types"
)

// ChatLogger emits structured success/error events around each dispatch
// attempt. It observes the flow and never alters it.
type ChatLogger struct {
	logger *slog.Logger
}

func NewChatLogger(logger *slog.Logger) *ChatLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatLogger{logger: logger}
}

func (l *ChatLogger) Success(route types.RoutingDecision, model *types.ModelConfig, messageCount int, opts Options, duration time.Duration) {
	l.logger.Info("chat dispatched",
		"route", route.String(),
		"model", modelID(model),
		"message_count", messageCount,
		"attempt", 1,
		"user", opts.User.AuditBlob(),
		"bot_id", opts.BotID,
		"stream", opts.Stream,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *ChatLogger) Failure(route types.RoutingDecision, model *types.ModelConfig, messageCount int, opts Options, err error) {
	l.logger.Error("chat dispatch failed",
		"route", route.String(),
		"model", modelID(model),
		"message_count", messageCount,
		"attempt", 1,
		"user", opts.User.AuditBlob(),
		"bot_id", opts.BotID,
		"error", err,
	)
}

// AgentFallthrough traces the silent agent-to-lower-route degradation that
// happens when an agent-mode model has no agentId configured.
func (l *ChatLogger) AgentFallthrough(model *types.ModelConfig, route types.RoutingDecision) {
	l.logger.Warn("agent mode requested but model has no agentId; falling through",
		"model", modelID(model),
		"route", route.String(),
	)
}
