package validators

import "errors"

var (
	ErrPasswordEmpty   = errors.New("no password provided")
	ErrPasswordTooLong = errors.New("password is too long")
	ErrNameEmpty       = errors.New("no name provided")
)

// bcrypt only looks at the first 72 bytes of its input
const maxPasswordBytes = 72

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}

func NameValidator(n string) error {
	if n == "" {
		return ErrNameEmpty
	}

	return nil
}
