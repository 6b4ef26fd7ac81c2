package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// AuthMetrics records authentication outcomes. Implementations must
// tolerate being nil-valued receivers.
type AuthMetrics interface {
	ObserveLogin(outcome string)
	ObserveRegistration(outcome string)
}

// Service implements registration, authentication and session
// resolution. Demo seed accounts are checked before registered users,
// matching the dashboard's login contract.
type Service struct {
	seeds    []User
	repo     Repository
	sessions SessionStore
	logger   *logging.Logger
	metrics  AuthMetrics

	authDelay     time.Duration
	registerDelay time.Duration
	newID         func() string
}

// Option tweaks service construction.
type Option func(*Service)

// WithDelays sets the artificial latency applied to login and
// registration, simulating the upstream channel round-trip.
func WithDelays(auth, register time.Duration) Option {
	return func(s *Service) {
		s.authDelay = auth
		s.registerDelay = register
	}
}

// WithSeeds replaces the demo seed accounts.
func WithSeeds(seeds []User) Option {
	return func(s *Service) { s.seeds = seeds }
}

// WithMetrics attaches authentication metrics.
func WithMetrics(m AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIDGenerator overrides how fresh user identifiers are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates the identity service.
func NewService(repo Repository, sessions SessionStore, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		seeds:    SeedUsers(),
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new patient account. The role is always paciente;
// the caller cannot choose it. Validation failures are user errors and
// are returned unwrapped for display.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		s.observeRegistration("invalid")
		return nil, err
	}

	if err := waitOrCancel(ctx, s.registerDelay); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		s.observeRegistration("duplicate")
		return nil, ErrEmailTaken
	}

	user := User{
		ID:         s.newID(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		Role:       RolePatient,
		Secret:     req.Secret,
	}
	if err := s.repo.Append(ctx, user); err != nil {
		s.observeRegistration("error")
		return nil, err
	}

	s.logger.Info("patient registered", "user", user)
	s.observeRegistration("success")
	return &user, nil
}

// Authenticate matches e-mail and secret against the seed accounts
// first, then the registered users. On a match it establishes the
// session, replacing any prior one. No match returns (nil, nil); the
// caller must not learn whether the e-mail exists.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (*User, error) {
	if err := waitOrCancel(ctx, s.authDelay); err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Info("authentication failed", "email", email)
		s.observeLogin("failure")
		return nil, nil
	}

	if err := s.sessions.Set(ctx, *user); err != nil {
		return nil, fmt.Errorf("identity: establish session: %w", err)
	}

	s.logger.Info("authentication succeeded", "user", *user)
	s.observeLogin("success")
	snapshot := *user
	return &snapshot, nil
}

// CurrentSession returns the authenticated user, or nil when no one is
// logged in.
func (s *Service) CurrentSession(ctx context.Context) (*User, error) {
	return s.sessions.Get(ctx)
}

// Logout clears the session unconditionally. It is idempotent.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

func (s *Service) lookup(ctx context.Context, email, secret string) (*User, error) {
	for i := range s.seeds {
		if s.seeds[i].Email == email && s.seeds[i].Secret == secret {
			u := s.seeds[i]
			return &u, nil
		}
	}
	registered, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range registered {
		if registered[i].Email == email && registered[i].Secret == secret {
			u := registered[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Service) emailTaken(ctx context.Context, email string) (bool, error) {
	for i := range s.seeds {
		if s.seeds[i].Email == email {
			return true, nil
		}
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *Service) observeLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveLogin(outcome)
	}
}

func (s *Service) observeRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveRegistration(outcome)
	}
}

// waitOrCancel sleeps for the artificial latency used by the demo
// flows, honoring context cancellation.
func waitOrCancel(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
