package identity

import "errors"

var (
	// ErrMissingName is returned when the registration name is blank.
	ErrMissingName = errors.New("identity: name is required")

	// ErrMissingEmail is returned when the registration e-mail is blank.
	ErrMissingEmail = errors.New("identity: e-mail is required")

	// ErrPasswordMismatch is returned when the secret and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("identity: as senhas não coincidem")

	// ErrInvalidNationalID is returned when the CPF is not exactly 11
	// characters.
	ErrInvalidNationalID = errors.New("identity: CPF deve conter 11 dígitos")

	// ErrEmailTaken is returned when the e-mail is already registered
	// or belongs to a demo seed account.
	ErrEmailTaken = errors.New("identity: e-mail already registered")

	// ErrNoSession is returned by operations that require an
	// authenticated session when none exists.
	ErrNoSession = errors.New("identity: no active session")
)
