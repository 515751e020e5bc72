package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("123secret!!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "123secret!!", hash)

	assert.NoError(t, VerifyPassword("123secret!!", hash))
	assert.Error(t, VerifyPassword("123secret!", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
