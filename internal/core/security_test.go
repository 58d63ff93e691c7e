// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse")

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("anything", "not-an-argon2-hash")
	assert.Error(t, err)
}

func TestTokenHashing(t *testing.T) {
	t.Parallel()

	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	other, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	hash := HashToken(token)
	assert.NotEqual(t, token, hash)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash(other, hash))
}
