// Package store is the credential store: it persists account records and
// looks them up by email or verification token
package store

import (
	"context"
	"errors"

	"bitwise74/auth-api/internal/model"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type AccountStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Create inserts u and fills in its ID. The email unique index is the
	// final word on duplicates, ErrDuplicateEmail is returned on a violation.
	Create(ctx context.Context, u *model.User) error
	// MarkVerified flags every account holding token as verified and
	// returns how many rows matched.
	MarkVerified(ctx context.Context, token string) (int64, error)
}

// GormStore implements AccountStore. The *gorm.DB must be opened with
// TranslateError enabled for duplicate detection to work.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return false, wrap(err, "email_exists")
	}

	return count > 0, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, wrap(err, "find_by_email")
	}

	return &u, nil
}

func (s *GormStore) Create(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}

		return wrap(err, "create")
	}

	return nil
}

func (s *GormStore) MarkVerified(ctx context.Context, token string) (int64, error) {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("verification_token = ?", token).
		Update("verified", true)
	if r.Error != nil {
		return 0, wrap(r.Error, "mark_verified")
	}

	return r.RowsAffected, nil
}

func wrap(err error, op string) error {
	return oops.
		In("store").
		Code("db_query").
		With("op", op).
		Wrapf(err, "account store %s", op)
}
