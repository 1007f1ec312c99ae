package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 24 * time.Hour

var (
	ErrMissingSession = errors.New("no session token provided")
	ErrInvalidSession = errors.New("session token is not valid or has expired")
	ErrEmptySecret    = errors.New("session signing secret is empty")
)

type SessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SessionSigner issues and verifies HS256 signed session tokens. The secret
// is fixed for the lifetime of the signer.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionSigner(secret []byte) (*SessionSigner, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	s := make([]byte, len(secret))
	copy(s, secret)

	return &SessionSigner{
		secret: s,
		ttl:    SessionTTL,
		now:    time.Now,
	}, nil
}

// Issue returns a token carrying name that expires SessionTTL from now.
func (s *SessionSigner) Issue(name string) (string, error) {
	now := s.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token, %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of token and returns the name it
// was issued for. Nothing is looked up in the database.
func (s *SessionSigner) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrMissingSession
	}

	var claims SessionClaims

	t, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if !t.Valid {
		return "", ErrInvalidSession
	}

	return claims.Name, nil
}
