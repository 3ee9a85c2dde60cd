package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booknest-backend/config"
	"booknest-backend/pkg/logger"
	"booknest-backend/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func middlewareTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "development")
	require.NoError(t, err)
	return l
}

func middlewareTestTokenService(t *testing.T) service.TokenService {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWT{
			Secret:     "middleware-test-secret-key-0123456789",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
	}
	return service.NewTokenService(cfg, middlewareTestLogger(t))
}

func runAuthMiddleware(t *testing.T, tokenSvc service.TokenService, prepare func(*http.Request)) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	reachedHandler := false
	handler := AuthMiddleware(tokenSvc, middlewareTestLogger(t))(func(c echo.Context) error {
		reachedHandler = true
		claims, ok := c.Get("user_claims").(*service.TokenClaims)
		require.True(t, ok, "claims must be set for the handler")
		assert.Equal(t, 7, claims.UserID)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(ctx))
	return rec, reachedHandler
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	tokenSvc := middlewareTestTokenService(t)
	pair, err := tokenSvc.IssuePair(7, "+919876543210")
	require.NoError(t, err)

	rec, reached := runAuthMiddleware(t, tokenSvc, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: pair.AccessToken})
	})

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	tokenSvc := middlewareTestTokenService(t)
	pair, err := tokenSvc.IssuePair(7, "+919876543210")
	require.NoError(t, err)

	rec, reached := runAuthMiddleware(t, tokenSvc, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	})

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokenSvc := middlewareTestTokenService(t)

	rec, reached := runAuthMiddleware(t, tokenSvc, nil)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokenSvc := middlewareTestTokenService(t)

	rec, reached := runAuthMiddleware(t, tokenSvc, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "not-a-token"})
	})

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	tokenSvc := middlewareTestTokenService(t)
	pair, err := tokenSvc.IssuePair(7, "+919876543210")
	require.NoError(t, err)

	rec, reached := runAuthMiddleware(t, tokenSvc, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: pair.RefreshToken})
	})

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
