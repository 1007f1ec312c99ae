package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"bitwise74/auth-api/internal/metrics"
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/security"
	"bitwise74/auth-api/pkg/validators"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// notifyTimeout bounds a single verification mail send
const notifyTimeout = 30 * time.Second

type AccountOpts struct {
	Store    store.AccountStore
	Hasher   security.PasswordHasher
	Sessions *security.SessionSigner
	Notifier Notifier
	// Metrics may be nil
	Metrics *metrics.Metrics
	// ClientURL is the frontend base, verification links point at
	// <ClientURL>/verify-email
	ClientURL string
}

// AccountService runs registration, email verification and login
type AccountService struct {
	store    store.AccountStore
	hasher   security.PasswordHasher
	sessions *security.SessionSigner
	notifier Notifier
	metrics  *metrics.Metrics
	client   *url.URL

	wg conc.WaitGroup
}

func NewAccountService(o *AccountOpts) (*AccountService, error) {
	if o == nil {
		return nil, errors.New("no account options provided")
	}

	if o.Store == nil {
		return nil, errors.New("no account store provided")
	}

	if o.Hasher == nil {
		return nil, errors.New("no password hasher provided")
	}

	if o.Sessions == nil {
		return nil, errors.New("no session signer provided")
	}

	if o.Notifier == nil {
		return nil, errors.New("no notifier provided")
	}

	u, err := url.Parse(o.ClientURL)
	if err != nil {
		return nil, fmt.Errorf("invalid client url, %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client url %q must be absolute", o.ClientURL)
	}

	return &AccountService{
		store:    o.Store,
		hasher:   o.Hasher,
		sessions: o.Sessions,
		notifier: o.Notifier,
		metrics:  o.Metrics,
		client:   u,
	}, nil
}

// Register creates an unverified account and dispatches the verification
// mail in the background. A failed send never fails the registration.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (err error) {
	defer func() { s.metrics.Registration(outcome(err)) }()

	if name == "" || email == "" || password == "" {
		return invalid(ErrMissingFields)
	}

	if err := validators.NameValidator(name); err != nil {
		return invalid(err)
	}

	if err := validators.EmailValidator(email); err != nil {
		return invalid(err)
	}

	if err := validators.PasswordValidator(password); err != nil {
		return invalid(err)
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return persistence(ErrPersistence, err)
	}

	if exists {
		return ErrEmailExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHashing, err)
	}

	token, err := security.MakeVerificationToken()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrToken, err)
	}

	u := &model.User{
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		VerificationToken: token,
	}

	if err := s.store.Create(ctx, u); err != nil {
		// Lost the race against a concurrent registration
		if errors.Is(err, store.ErrDuplicateEmail) {
			return ErrEmailExists
		}

		return persistence(ErrInsert, err)
	}

	s.notify(email, s.verificationLink(token))
	return nil
}

// VerifyEmail marks every account holding token as verified. Verifying an
// already verified account succeeds again.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (err error) {
	defer func() { s.metrics.Verification(outcome(err)) }()

	if token == "" {
		return ErrMissingToken
	}

	n, err := s.store.MarkVerified(ctx, token)
	if err != nil {
		return persistence(ErrPersistence, err)
	}

	if n == 0 {
		return ErrInvalidOrExpiredToken
	}

	return nil
}

// Login checks the credentials and returns a signed session token for the
// account's display name.
func (s *AccountService) Login(ctx context.Context, email, password string) (token string, err error) {
	defer func() { s.metrics.Login(outcome(err)) }()

	if email == "" || password == "" {
		return "", invalid(ErrMissingCredentials)
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}

		return "", persistence(ErrPersistence, err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrComparison, err)
	}

	if !ok {
		return "", ErrIncorrectPassword
	}

	if !u.Verified {
		return "", ErrEmailNotVerified
	}

	token, err = s.sessions.Issue(u.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToken, err)
	}

	return token, nil
}

// Wait blocks until every dispatched verification mail has finished
func (s *AccountService) Wait() {
	if r := s.wg.WaitAndRecover(); r != nil {
		zap.L().Error("Verification mail sender panicked", zap.Error(r.AsError()))
	}
}

func (s *AccountService) verificationLink(token string) string {
	u := s.client.JoinPath("verify-email")
	u.RawQuery = url.Values{"token": {token}}.Encode()

	return u.String()
}

func (s *AccountService) notify(to, link string) {
	s.wg.Go(func() {
		// The request context is gone by the time the mail goes out
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.SendVerification(ctx, to, link); err != nil {
			s.metrics.VerificationMail("failure")
			zap.L().Error("Failed to send verification email",
				zap.Error(errors.Join(ErrNotification, err)),
				zap.String("to", to),
			)
			return
		}

		s.metrics.VerificationMail("success")
	})
}
