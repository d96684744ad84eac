package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/open-policy-agent/opa/rego"

	"github.com/af-corp/converse-gateway/internal/auth"
	"github.com/af-corp/converse-gateway/internal/config"
	"github.com/af-corp/converse-gateway/internal/types"
)

// PolicyInput is the data sent to OPA for evaluation.
type PolicyInput struct {
	User    PolicyUser `json:"user"`
	Request PolicyReq  `json:"request"`
	Time    PolicyTime `json:"time"`
}

type PolicyUser struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	AllowedModels []string `json:"allowed_models"`
}

type PolicyReq struct {
	Model string `json:"model"`
	Route string `json:"route"`
	BotID string `json:"bot_id,omitempty"`
}

type PolicyTime struct {
	Hour int    `json:"hour"`
	Day  string `json:"day"`
}

// Evaluator decides whether an authenticated key may use a model.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() config.PolicyConfig
}

// NewEvaluator creates a policy evaluator. Call Load() to compile policies.
func NewEvaluator(cfg func() config.PolicyConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the bundle path.
func (e *Evaluator) Load() error {
	cfg := e.cfg()
	modules, err := LoadRegoFiles(cfg.BundlePath)
	if err != nil {
		return fmt.Errorf("load rego files: %w", err)
	}
	if len(modules) == 0 {
		slog.Warn("no rego files found", "path", cfg.BundlePath)
		return nil
	}
	if err := e.LoadFromModules(modules); err != nil {
		return err
	}
	slog.Info("opa policies loaded", "modules", len(modules))
	return nil
}

// LoadFromModules compiles policies from provided module sources (useful for testing).
func (e *Evaluator) LoadFromModules(modules map[string]string) error {
	r := rego.New(
		rego.Query("[data.converse.authz.allow, data.converse.authz.reason]"),
		func() func(*rego.Rego) {
			mods := make([]func(*rego.Rego), 0, len(modules))
			for name, src := range modules {
				mods = append(mods, rego.Module(name, src))
			}
			return func(r *rego.Rego) {
				for _, m := range mods {
					m(r)
				}
			}
		}(),
	)

	prepared, err := r.PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()
	return nil
}

// Evaluate runs the policy against the given input.
func (e *Evaluator) Evaluate(ctx context.Context, input PolicyInput) (bool, string, error) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		// No policies loaded; fail closed
		return false, "no policies loaded", nil
	}

	cfg := e.cfg()
	timeout := cfg.EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := prepared.Eval(evalCtx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Sprintf("policy evaluation error: %v", err), err
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, "no policy result", nil
	}

	// Result is [allow, reason]
	arr, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(arr) < 2 {
		return false, "unexpected policy result format", nil
	}

	allowed, _ := arr[0].(bool)
	reason, _ := arr[1].(string)

	return allowed, reason, nil
}

// CheckModelAccess answers whether the authenticated key may use the model.
// Disabled policy passes everything; evaluation errors fail closed.
func (e *Evaluator) CheckModelAccess(ctx context.Context, info *auth.AuthInfo, model *types.ModelConfig, route, botID string) error {
	if !e.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	input := PolicyInput{
		User: PolicyUser{
			ID:            info.UserID,
			Email:         info.Email,
			AllowedModels: info.AllowedModels,
		},
		Request: PolicyReq{
			Model: model.ID,
			Route: route,
			BotID: botID,
		},
		Time: PolicyTime{
			Hour: now.Hour(),
			Day:  now.Weekday().String(),
		},
	}

	allowed, reason, err := e.Evaluate(ctx, input)
	if err != nil {
		slog.Error("policy evaluation failed", "error", err, "model", model.ID)
		return &types.PipelineError{
			Code:     types.CodeForbidden,
			Severity: types.SeverityCritical,
			Message:  "Policy evaluation failed",
		}
	}
	if !allowed {
		return &types.PipelineError{
			Code:     types.CodeForbidden,
			Severity: types.SeverityWarning,
			Message:  "Request denied by policy: " + reason,
			Metadata: map[string]any{"model": model.ID, "reason": reason},
		}
	}
	return nil
}
