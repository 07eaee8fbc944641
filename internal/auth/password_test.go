package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	assert.NotEqual(t, "motdepasse123", hash)

	assert.True(t, CheckPassword("motdepasse123", hash))
	assert.False(t, CheckPassword("motdepasse124", hash))
}

func TestHashPassword_SameInputDifferentHashes(t *testing.T) {
	first, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	second, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	// Salted: two hashes of the same password differ, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("motdepasse123", first))
	assert.True(t, CheckPassword("motdepasse123", second))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("motdepasse123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("motdepasse123", ""))
}
