package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	t.Run("correct password", func(t *testing.T) {
		ok, err := h.Verify("pw123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password is a mismatch, not an error", func(t *testing.T) {
		ok, err := h.Verify("pw124", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash is an error", func(t *testing.T) {
		_, err := h.Verify("pw123", "not-a-hash")
		assert.Error(t, err)
	})

	t.Run("same password gets a new salt", func(t *testing.T) {
		again, err := h.Hash("pw123")
		require.NoError(t, err)
		assert.NotEqual(t, hash, again)
	})
}

func TestBcryptHasher_NoTruncation(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	p := strings.Repeat("a", MaxBcryptPassword)

	hash, err := h.Hash(p)
	require.NoError(t, err)

	ok, err := h.Verify(p, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(p+"X-anything-appended", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := NewHasher(HasherBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	ok, err = m.Verify(p+"b", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewBcrypt_DefaultCost(t *testing.T) {
	h := NewBcrypt(0)
	assert.Equal(t, DefaultBcryptCost, h.Cost)

	hash, err := h.Hash("pw123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestMultiHasher(t *testing.T) {
	bcryptHasher, err := NewHasher(HasherBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	argonHasher, err := NewHasher(HasherArgon2id, bcrypt.MinCost)
	require.NoError(t, err)

	bHash, err := bcryptHasher.Hash("secret")
	require.NoError(t, err)

	aHash, err := argonHasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(aHash, "$argon2id$"))

	// both hashers accept both formats
	for _, h := range []*MultiHasher{bcryptHasher, argonHasher} {
		for _, hash := range []string{bHash, aHash} {
			ok, err := h.Verify("secret", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("other", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	}

	_, err = bcryptHasher.Verify("secret", "plaintext")
	assert.ErrorIs(t, err, ErrUnknownHash)
}

func TestNewHasher_Unsupported(t *testing.T) {
	_, err := NewHasher("md5", 0)
	assert.Error(t, err)
}
