package storeauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := storeauth.HashPassword("secret-password-1")

		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "secret-password-1", hash)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		_, err := storeauth.HashPassword("")

		require.Error(t, err)
		assert.ErrorIs(t, err, storeauth.ErrNoEmptyString)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := storeauth.HashPassword("secret-password-1")
	require.NoError(t, err)

	t.Run("matches the original password", func(t *testing.T) {
		assert.NoError(t, storeauth.ComparePasswordAndHash("secret-password-1", hash))
	})

	t.Run("rejects a different password", func(t *testing.T) {
		err := storeauth.ComparePasswordAndHash("wrong-password-1", hash)
		assert.ErrorIs(t, err, storeauth.ErrMismatchedHashAndPassword)
	})
}

func TestRandomPasswordHash(t *testing.T) {
	hash := storeauth.RandomPasswordHash()

	assert.NotEmpty(t, hash)
	assert.Error(t, storeauth.ComparePasswordAndHash("nope", hash))
}
