package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("campus-secret")
	require.NoError(t, err)
	require.NotEqual(t, "campus-secret", hash)

	require.True(t, VerifyPassword(hash, "campus-secret"))
	require.False(t, VerifyPassword(hash, "wrong-secret"))
}

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	first, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
