package identity

import (
	"log/slog"
	"strings"
)

// Role is the closed set of user profiles. Wire values match the
// durable storage layout.
type Role string

const (
	RolePatient Role = "paciente"
	RoleAgent   Role = "atendente"
	RoleManager Role = "gerente"
)

// Valid reports whether the role is one of the known profiles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleAgent, RoleManager:
		return true
	}
	return false
}

// User is one account, either a demo seed or a registered patient. The
// secret is an opaque credential compared for equality; hardening it is
// out of scope for this platform.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Phone      string `json:"telefone"`
	NationalID string `json:"cpf,omitempty"`
	Role       Role   `json:"perfil"`
	Secret     string `json:"senha"`
}

// LogValue keeps the secret out of structured logs.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
		slog.String("role", string(u.Role)),
	)
}

// RegisterRequest carries the patient registration form fields.
type RegisterRequest struct {
	Name               string `json:"nome"`
	Email              string `json:"email"`
	Phone              string `json:"telefone"`
	NationalID         string `json:"cpf"`
	Secret             string `json:"senha"`
	SecretConfirmation string `json:"confirmarSenha"`
}

// Validate applies the registration constraints: matching secrets and
// an 11-character CPF.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if r.Secret != r.SecretConfirmation {
		return ErrPasswordMismatch
	}
	if len(r.NationalID) != 11 {
		return ErrInvalidNationalID
	}
	return nil
}
