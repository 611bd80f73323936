package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken("admin", secret)
	require.NoError(t, err)

	sub, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("admin", []byte("right"))
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := ValidateToken("not.a.token", []byte("secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter2"))
}
