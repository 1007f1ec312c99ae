// Package validators contains input validators that have been abstracted
// away from the account code
package validators

import (
	"errors"
	"net/mail"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
	ErrEmailTooLong = errors.New("email address is too long")
)

// RFC 5321 path limit
const maxEmailLength = 254

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > maxEmailLength {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return ErrEmailInvalid
	}

	// ParseAddress accepts "Name <a@b.c>", only the bare address is allowed here
	if addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
