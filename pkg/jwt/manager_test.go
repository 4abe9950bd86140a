package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.GenerateToken("u1", "Ada", "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Ada", claims.DisplayName)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestManager_ExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)

	token, err := mgr.GenerateToken("u1", "Ada", "member")
	require.NoError(t, err)

	_, err = mgr.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken("u1", "Ada", "admin")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_GarbageToken(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	_, err := mgr.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
