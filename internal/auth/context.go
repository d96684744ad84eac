package auth

import (
	"context"

	"github.com/af-corp/converse-gateway/internal/types"
)

type contextKey string

const authContextKey contextKey = "converse_auth"

// AuthInfo holds authenticated identity information extracted from an API key.
type AuthInfo struct {
	KeyID             string
	UserID            string
	Email             string
	Name              string
	AllowedModels     []string
	RPMLimit          *int
	DailyRequestLimit *int
}

// Identity converts the key metadata to the caller identity the dispatch
// pipeline attaches to provider calls and audit logs.
func (a *AuthInfo) Identity() *types.UserIdentity {
	if a == nil {
		return nil
	}
	return &types.UserIdentity{
		ID:    a.UserID,
		Email: a.Email,
		Name:  a.Name,
	}
}

func ContextWithAuth(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authContextKey, info)
}

func AuthFromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authContextKey).(*AuthInfo)
	return info, ok
}
