// Package security contains everything related to the security of user data:
// password hashing, verification tokens and signed session tokens
package security

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used for new bcrypt hashes
	DefaultBcryptCost = 10

	// MaxBcryptPassword is the longest password bcrypt looks at, anything
	// after it would be ignored
	MaxBcryptPassword = 72

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

var ErrUnknownHash = errors.New("unknown password hash format")

// PasswordHasher hashes and verifies passwords. Verify returns (false, nil)
// on a mismatch and only returns an error when the comparison itself could
// not be done.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcrypt(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}

	return &BcryptHasher{Cost: cost}
}

func (b *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (b *BcryptHasher) Verify(password, hash string) (bool, error) {
	// Hash never accepts these, so no stored hash can match
	if len(password) > MaxBcryptPassword {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}

// MultiHasher hashes new passwords with the configured algorithm but
// verifies any hash it knows by looking at its prefix. Switching the
// algorithm therefore never locks existing accounts out.
type MultiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon   *ArgonHash
}

// NewHasher returns a MultiHasher producing hashes with algo
func NewHasher(algo string, bcryptCost int) (*MultiHasher, error) {
	m := &MultiHasher{
		bcrypt: NewBcrypt(bcryptCost),
		argon:  NewArgon(),
	}

	switch algo {
	case HasherBcrypt, "":
		m.primary = m.bcrypt
	case HasherArgon2id:
		m.primary = m.argon
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algo)
	}

	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return m.argon.Verify(password, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return m.bcrypt.Verify(password, hash)
	}

	return false, ErrUnknownHash
}
