package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianvest/platform/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash and compare", func(t *testing.T) {
		hash, err := auth.HashPassword("password123")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", hash)

		assert.NoError(t, auth.ComparePasswordAndHash("password123", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := auth.HashPassword("password123")
		require.NoError(t, err)

		err = auth.ComparePasswordAndHash("password124", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("empty password rejected", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		a, err := auth.HashPassword("password123")
		require.NoError(t, err)
		b, err := auth.HashPassword("password123")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}
