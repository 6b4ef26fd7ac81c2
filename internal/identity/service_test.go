package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memRepository struct {
	users     []User
	appendErr error
}

func (m *memRepository) Append(_ context.Context, user User) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.users = append(m.users, user)
	return nil
}

func (m *memRepository) List(_ context.Context) ([]User, error) {
	return append([]User(nil), m.users...), nil
}

func (m *memRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

type memSessionStore struct {
	current *User
}

func (m *memSessionStore) Set(_ context.Context, user User) error {
	m.current = &user
	return nil
}

func (m *memSessionStore) Get(_ context.Context) (*User, error) {
	if m.current == nil {
		return nil, nil
	}
	snapshot := *m.current
	return &snapshot, nil
}

func (m *memSessionStore) Clear(_ context.Context) error {
	m.current = nil
	return nil
}

func newTestService(opts ...Option) (*Service, *memRepository, *memSessionStore) {
	repo := &memRepository{}
	sessions := &memSessionStore{}
	opts = append([]Option{WithIDGenerator(func() string { return "fixed-id" })}, opts...)
	return NewService(repo, sessions, nil, opts...), repo, sessions
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Name:               "Paciente Novo",
		Email:              "novo@example.com",
		Phone:              "65 900000000",
		NationalID:         "12345678901",
		Secret:             "segredo",
		SecretConfirmation: "segredo",
	}
}

func TestRegisterCreatesPatient(t *testing.T) {
	svc, repo, _ := newTestService()

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID != "fixed-id" {
		t.Errorf("expected generated id, got %q", user.ID)
	}
	if user.Role != RolePatient {
		t.Errorf("expected role paciente, got %q", user.Role)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 persisted user, got %d", len(repo.users))
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(r *RegisterRequest) { r.Name = "" },
			wantErr: ErrMissingName,
		},
		{
			name:    "missing email",
			mutate:  func(r *RegisterRequest) { r.Email = "" },
			wantErr: ErrMissingEmail,
		},
		{
			name:    "password mismatch",
			mutate:  func(r *RegisterRequest) { r.SecretConfirmation = "outra" },
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "short cpf",
			mutate:  func(r *RegisterRequest) { r.NationalID = "1234567890" },
			wantErr: ErrInvalidNationalID,
		},
		{
			name:    "long cpf",
			mutate:  func(r *RegisterRequest) { r.NationalID = "123456789012" },
			wantErr: ErrInvalidNationalID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			req := validRegistration()
			tt.mutate(&req)

			if _, err := svc.Register(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, validRegistration()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsSeedEmail(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRegistration()
	req.Email = "helocapistrano10@gmail.com"

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for seed e-mail, got %v", err)
	}
}

func TestAuthenticateSeedAccount(t *testing.T) {
	svc, _, sessions := newTestService()

	user, err := svc.Authenticate(context.Background(), "rafaelpnascimento@14gmail.com", "141004")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user == nil || user.Role != RoleManager {
		t.Fatalf("expected gerente seed, got %+v", user)
	}
	if sessions.current == nil || sessions.current.ID != "1" {
		t.Fatalf("expected session for user 1, got %+v", sessions.current)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	svc, _, sessions := newTestService()

	user, err := svc.Authenticate(context.Background(), "rafaelpnascimento@14gmail.com", "000000")
	if err != nil {
		t.Fatalf("Authenticate errored: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for wrong secret, got %+v", user)
	}
	if sessions.current != nil {
		t.Fatal("expected no session after failed login")
	}
}

func TestAuthenticateRegisteredUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.Authenticate(ctx, "novo@example.com", "segredo")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user == nil || user.ID != "fixed-id" {
		t.Fatalf("expected registered user, got %+v", user)
	}
}

func TestAuthenticateReplacesSession(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "helocapistrano10@gmail.com", "061006"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "rn4364729@gmail.com", "130597"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if sessions.current == nil || sessions.current.ID != "3" {
		t.Fatalf("expected the later login to own the session, got %+v", sessions.current)
	}
}

func TestAuthenticateHonorsCancellation(t *testing.T) {
	svc, _, _ := newTestService(WithDelays(time.Minute, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Authenticate(ctx, "rafaelpnascimento@14gmail.com", "141004"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCurrentSessionAndLogout(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no session, got %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "helocapistrano10@gmail.com", "061006"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	user, err = svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession failed: %v", err)
	}
	if user == nil || user.Name != "Heloisa Capistrano" {
		t.Fatalf("expected Heloisa session, got %+v", user)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}
