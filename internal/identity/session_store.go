package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const currentUserKey = "currentUser"

// SessionStore persists the single authenticated session. At most one
// session exists at a time; Set unconditionally replaces any prior one.
type SessionStore interface {
	Set(ctx context.Context, user User) error
	Get(ctx context.Context) (*User, error)
	Clear(ctx context.Context) error
}

// RedisSessionStore keeps the session as a JSON user record under the
// currentUser key.
type RedisSessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisSessionStore creates a session store. A zero ttl keeps the
// session until logout.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("identity: redis client cannot be nil")
	}
	return &RedisSessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("mediconnect.internal.identity.session"),
	}
}

// Set stores a snapshot of the user as the current session.
func (s *RedisSessionStore) Set(ctx context.Context, user User) error {
	ctx, span := s.tracer.Start(ctx, "identity.set_session")
	defer span.End()

	data, err := json.Marshal(user)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("identity: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, currentUserKey, data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("identity: failed to persist session: %w", err)
	}
	return nil
}

// Get returns the current session, or nil when no one is logged in.
func (s *RedisSessionStore) Get(ctx context.Context) (*User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.get_session")
	defer span.End()

	data, err := s.redis.Get(ctx, currentUserKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("identity: failed to load session: %w", err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("identity: failed to decode session: %w", err)
	}
	return &user, nil
}

// Clear removes the session entry. Clearing an absent session is not
// an error; logout is idempotent.
func (s *RedisSessionStore) Clear(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "identity.clear_session")
	defer span.End()

	if err := s.redis.Del(ctx, currentUserKey).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("identity: failed to clear session: %w", err)
	}
	return nil
}
