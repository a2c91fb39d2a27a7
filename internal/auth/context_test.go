package auth

import (
	"context"
	"testing"

	"github.com/fitlog/fitlog/internal/model"
)

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	ctx := ContextWithIdentity(context.Background(), model.Identity{Name: "Ann", Email: "ann@x.com"})

	id, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.Email != "ann@x.com" || id.Name != "Ann" {
		t.Errorf("unexpected identity: %+v", id)
	}
	if EmailFromContext(ctx) != "ann@x.com" {
		t.Error("EmailFromContext mismatch")
	}
}

func TestIdentityContext_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
	if EmailFromContext(context.Background()) != "" {
		t.Error("expected empty email")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustIdentityFromContext should panic without identity")
		}
	}()
	MustIdentityFromContext(context.Background())
}
