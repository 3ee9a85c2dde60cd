package service

import (
	"testing"
	"time"

	"booknest-backend/config"
	"booknest-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() *config.Config {
	return &config.Config{
		JWT: config.JWT{
			Secret:     "test-secret-key-that-is-long-enough-000",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 365 * 24 * time.Hour,
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	log, err := logger.New("debug", "development")
	require.NoError(t, err)
	return log
}

func TestTokenService_IssuePair(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	pair, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestTokenService_VerifyAccess(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	pair, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	claims, err := s.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "+919876543210", claims.PhoneNumber)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestTokenService_TokenTypeConfusion(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	pair, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	// A refresh token must not pass as an access token and vice versa
	_, err = s.VerifyAccess(pair.RefreshToken)
	assert.Error(t, err)

	_, err = s.VerifyRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_Rotation(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	first, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	claims, err := s.VerifyRefresh(first.RefreshToken)
	require.NoError(t, err)

	second, err := s.IssuePair(claims.UserID, claims.PhoneNumber)
	require.NoError(t, err)

	// Rotation yields a fresh pair
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	// Both old and new access tokens remain valid until their own expiry
	_, err = s.VerifyAccess(first.AccessToken)
	assert.NoError(t, err)
	_, err = s.VerifyAccess(second.AccessToken)
	assert.NoError(t, err)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	cfg := testTokenConfig()
	cfg.JWT.AccessTTL = -time.Minute
	s := NewTokenService(cfg, testLogger(t))

	pair, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	_, err = s.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	pair, err := s.IssuePair(42, "+919876543210")
	require.NoError(t, err)

	other := testTokenConfig()
	other.JWT.Secret = "another-secret-key-that-is-long-enough"
	s2 := NewTokenService(other, testLogger(t))

	_, err = s2.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_GarbageToken(t *testing.T) {
	s := NewTokenService(testTokenConfig(), testLogger(t))

	_, err := s.VerifyAccess("not-a-token")
	assert.Error(t, err)

	_, err = s.VerifyRefresh("")
	assert.Error(t, err)
}
