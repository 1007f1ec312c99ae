package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("driver: bad connection")

	tests := []struct {
		err  error
		want Kind
	}{
		{invalid(ErrMissingFields), KindValidation},
		{ErrMissingToken, KindValidation},
		{ErrEmailExists, KindConflict},
		{ErrUserNotFound, KindAuth},
		{ErrIncorrectPassword, KindAuth},
		{ErrEmailNotVerified, KindAuth},
		{ErrInvalidOrExpiredToken, KindAuth},
		{persistence(ErrPersistence, cause), KindPersistence},
		{persistence(ErrInsert, cause), KindPersistence},
		{fmt.Errorf("%w: %w", ErrHashing, cause), KindInternal},
		{ErrComparison, KindInternal},
		{cause, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := persistence(ErrInsert, cause)

	assert.ErrorIs(t, err, ErrInsert)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", outcome(nil))
	assert.Equal(t, "email_exists", outcome(ErrEmailExists))
	assert.Equal(t, "invalid_token", outcome(ErrInvalidOrExpiredToken))
	assert.Equal(t, "validation_error", outcome(ErrMissingToken))
	assert.Equal(t, "persistence_error", outcome(persistence(ErrPersistence, errors.New("x"))))
	assert.Equal(t, "internal_error", outcome(ErrHashing))
}
