package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("string password", func(t *testing.T) {
		t.Parallel()
		hash, err := HashPassword("mypassword")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("byte slice password", func(t *testing.T) {
		t.Parallel()
		hash, err := HashPassword([]byte("mypassword"))
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
	})

	t.Run("unique salt per call", func(t *testing.T) {
		t.Parallel()
		first, err := HashPassword("mypassword")
		require.NoError(t, err)
		second, err := HashPassword("mypassword")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestComparePassword(t *testing.T) {
	t.Parallel()

	// Pre-generate a hash for testing
	password := "correctpassword"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	t.Run("correct password string", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword(password, hash)
		assert.NoError(t, err)
	})

	t.Run("correct password bytes", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword([]byte(password), hash)
		assert.NoError(t, err)
	})

	t.Run("incorrect password", func(t *testing.T) {
		t.Parallel()
		err := ComparePassword("wrongpassword", hash)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("malformed hashes", func(t *testing.T) {
		t.Parallel()
		for _, encoded := range []string{
			"",
			"plaintext",
			"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
			"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA",
		} {
			err := ComparePassword("any", encoded)
			assert.ErrorIs(t, err, ErrMalformedHash, "encoded=%q", encoded)
		}
	})
}

func TestDummyHash(t *testing.T) {
	t.Parallel()

	// The dummy hash must decode cleanly so the rejected path costs a full
	// verification, and it must never match a real password.
	err := ComparePassword("anything", DummyHash())
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}
