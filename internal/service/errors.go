package service

import (
	"errors"
	"fmt"
)

// Kind is the error category a failure belongs to. The HTTP layer uses it to
// decide what is shown to the client and what is only logged.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrMissingCredentials = errors.New("email and password are required")

	ErrMissingToken          = errors.New("verification token is missing")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrEmailExists = errors.New("email already exists")

	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailNotVerified  = errors.New("email not verified")

	ErrPersistence = errors.New("database query error")
	// ErrInsert is a persistence failure while inserting a new account
	ErrInsert = fmt.Errorf("%w: insert failed", ErrPersistence)

	ErrHashing    = errors.New("error hashing password")
	ErrComparison = errors.New("error comparing passwords")
	ErrToken      = errors.New("error generating token")

	// ErrNotification is never returned to callers, mail failures are only logged
	ErrNotification = errors.New("verification mail delivery failed")
)

// ValidationError wraps a rejected input, the message is safe to show to the client.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	return &ValidationError{Err: err}
}

func persistence(base, err error) error {
	return fmt.Errorf("%w: %w", base, err)
}

// KindOf classifies err
func KindOf(err error) Kind {
	var ve *ValidationError

	switch {
	case errors.As(err, &ve), errors.Is(err, ErrMissingToken):
		return KindValidation
	case errors.Is(err, ErrEmailExists):
		return KindConflict
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrIncorrectPassword),
		errors.Is(err, ErrEmailNotVerified),
		errors.Is(err, ErrInvalidOrExpiredToken):
		return KindAuth
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindInternal
	}
}

// outcome is the metrics label for the result of an operation
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmailExists):
		return "email_exists"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrIncorrectPassword):
		return "incorrect_password"
	case errors.Is(err, ErrEmailNotVerified):
		return "email_not_verified"
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return "invalid_token"
	}

	return KindOf(err).String() + "_error"
}
