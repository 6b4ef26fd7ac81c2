package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const registeredUsersKey = "registeredUsers"

// Repository stores registered patient accounts in insertion order.
type Repository interface {
	Append(ctx context.Context, user User) error
	List(ctx context.Context) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// RedisRepository keeps the registered-user collection as a single
// JSON array under the registeredUsers key, mirroring the durable
// layout the dashboards expect.
type RedisRepository struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisRepository creates a Redis-backed registered-user store.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	if client == nil {
		panic("identity: redis client cannot be nil")
	}
	return &RedisRepository{
		redis:  client,
		tracer: otel.Tracer("mediconnect.internal.identity.repository"),
	}
}

// Append adds a user to the end of the registered collection. The
// collection is mutated only from the sequential login/registration
// flow, so the read-modify-write here does not race.
func (r *RedisRepository) Append(ctx context.Context, user User) error {
	ctx, span := r.tracer.Start(ctx, "identity.append_user")
	defer span.End()

	users, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	users = append(users, user)

	data, err := json.Marshal(users)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("identity: failed to marshal registered users: %w", err)
	}
	if err := r.redis.Set(ctx, registeredUsersKey, data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("identity: failed to persist registered users: %w", err)
	}
	return nil
}

// List returns all registered users in registration order.
func (r *RedisRepository) List(ctx context.Context) ([]User, error) {
	ctx, span := r.tracer.Start(ctx, "identity.list_users")
	defer span.End()

	users, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return users, err
}

// FindByEmail returns the first registered user with the given e-mail,
// or nil when none matches.
func (r *RedisRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *RedisRepository) load(ctx context.Context) ([]User, error) {
	data, err := r.redis.Get(ctx, registeredUsersKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("identity: failed to load registered users: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("identity: failed to decode registered users: %w", err)
	}
	return users, nil
}
