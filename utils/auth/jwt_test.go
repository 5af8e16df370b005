package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-do-not-use-in-production",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "community-api-test",
	})
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager()

	token, jti, err := manager.GenerateAccessToken(42, "member@test.local", "member", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "member@test.local", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "community-api-test", claims.Issuer)
}

func TestJWTManager_RefreshTokenType(t *testing.T) {
	manager := testJWTManager()

	token, _, err := manager.GenerateRefreshToken(7, "admin@test.local", "admin", 0)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestJWTManager_UniqueJTIPerToken(t *testing.T) {
	manager := testJWTManager()

	_, first, err := manager.GenerateAccessToken(1, "a@test.local", "member", 0)
	require.NoError(t, err)
	_, second, err := manager.GenerateAccessToken(1, "a@test.local", "member", 0)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	manager := testJWTManager()
	other := NewJWTManager(JWTConfig{
		Secret: "a-different-secret",
		Expiry: time.Hour,
	})

	token, _, err := manager.GenerateAccessToken(1, "a@test.local", "member", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "a@test.local", "member", 0)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := testJWTManager()

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTManager_RefreshAccessToken(t *testing.T) {
	manager := testJWTManager()

	refreshToken, _, err := manager.GenerateRefreshToken(9, "b@test.local", "member", 1)
	require.NoError(t, err)

	accessToken, _, err := manager.RefreshAccessToken(refreshToken, 1)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, uint(9), claims.UserID)

	// An access token cannot be used in place of a refresh token
	_, _, err = manager.RefreshAccessToken(accessToken, 1)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_GetTokenExpiry(t *testing.T) {
	manager := testJWTManager()

	token, _, err := manager.GenerateAccessToken(1, "a@test.local", "member", 0)
	require.NoError(t, err)

	expiry, err := manager.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)
}
