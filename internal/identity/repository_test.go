package identity

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepository(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedisRepositoryEmptyList(t *testing.T) {
	repo, _ := newTestRepository(t)

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty list, got %d users", len(users))
	}
}

func TestRedisRepositoryAppendPreservesOrder(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first := User{ID: "a", Name: "Primeira Paciente", Email: "primeira@example.com", Role: RolePatient, Secret: "s1"}
	second := User{ID: "b", Name: "Segundo Paciente", Email: "segundo@example.com", Role: RolePatient, Secret: "s2"}

	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Append(ctx, second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "a" || users[1].ID != "b" {
		t.Errorf("expected registration order [a b], got [%s %s]", users[0].ID, users[1].ID)
	}
}

func TestRedisRepositoryFindByEmail(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	user := User{ID: "a", Name: "Paciente", Email: "paciente@example.com", Role: RolePatient, Secret: "s"}
	if err := repo.Append(ctx, user); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "paciente@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found == nil || found.ID != "a" {
		t.Fatalf("expected to find user a, got %+v", found)
	}

	missing, err := repo.FindByEmail(ctx, "outro@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown e-mail, got %+v", missing)
	}
}

func TestRedisRepositoryCorruptPayload(t *testing.T) {
	repo, mr := newTestRepository(t)

	mr.Set("registeredUsers", "not-json")

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error for corrupt payload")
	}
}
