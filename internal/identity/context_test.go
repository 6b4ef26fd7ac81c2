package identity

import (
	"context"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := UserFromContext(ctx); ok {
		t.Fatal("expected no user on a fresh context")
	}

	user := User{ID: "2", Name: "Heloisa Capistrano", Role: RoleAgent}
	ctx = WithUser(ctx, user)

	got, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected user on context")
	}
	if got.ID != "2" || got.Role != RoleAgent {
		t.Fatalf("unexpected user: %+v", got)
	}
}
