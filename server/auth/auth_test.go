package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "amina@example.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := VerifyAccessToken(token, "secret")
	require.NoError(t, err)
	require.EqualValues(t, 42, userID)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "amina@example.com", "secret")
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, "other")
	require.Error(t, err)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	_, err := VerifyAccessToken("not-a-token", "secret")
	require.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2hunter2", hash)

	require.True(t, VerifyPassword(hash, "hunter2hunter2"))
	require.False(t, VerifyPassword(hash, "wrong"))
}
