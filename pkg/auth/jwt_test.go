package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-1", "demo", "demo@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "demo", claims.Username)
	assert.Equal(t, "demo@example.com", claims.Email)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Username)
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-1", "demo", "demo@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateToken("user-1", "demo", "demo@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("demo1234")
	require.NoError(t, err)
	assert.NotEqual(t, "demo1234", hash)

	assert.True(t, CheckPasswordHash("demo1234", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
