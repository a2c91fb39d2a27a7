package auth

import (
	"context"

	"github.com/fitlog/fitlog/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for the authenticated identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity adds the caller's identity to the context.
func ContextWithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the caller's identity from the context.
// The second result is false when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok || id.Email == "" {
		return model.Identity{}, false
	}
	return id, true
}

// MustIdentityFromContext retrieves the identity from the context.
// Panics if not present (use only when auth middleware has run).
func MustIdentityFromContext(ctx context.Context) model.Identity {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		panic("identity not found - ensure auth middleware is applied")
	}
	return id
}

// EmailFromContext is a convenience function to get the caller's email.
// Returns empty string if not authenticated.
func EmailFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.Email
}
