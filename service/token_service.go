package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"booknest-backend/config"
	"booknest-backend/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair is a freshly signed access/refresh token pair
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims carries the signed session payload
type TokenClaims struct {
	UserID      int    `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the stateless session token pair.
// Validity is purely signature plus expiry; nothing is stored server-side.
type TokenService interface {
	IssuePair(userID int, phoneNumber string) (*TokenPair, error)
	VerifyAccess(tokenString string) (*TokenClaims, error)
	VerifyRefresh(tokenString string) (*TokenClaims, error)
}

// tokenService implements TokenService interface
type tokenService struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewTokenService creates a new token service instance
func NewTokenService(cfg *config.Config, logger *logger.Logger) TokenService {
	return &tokenService{
		cfg:    cfg,
		logger: logger,
	}
}

// IssuePair signs a new access and refresh token for the user. Each token
// carries a random jti so a rotated pair never equals the pair it replaces.
func (s *tokenService) IssuePair(userID int, phoneNumber string) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.JWT.AccessTTL)
	refreshExpiry := now.Add(s.cfg.JWT.RefreshTTL)

	accessToken, err := s.sign(userID, phoneNumber, TokenTypeAccess, now, accessExpiry)
	if err != nil {
		s.logger.Errorw("Failed to sign access token", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.sign(userID, phoneNumber, TokenTypeRefresh, now, refreshExpiry)
	if err != nil {
		s.logger.Errorw("Failed to sign refresh token", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	s.logger.Debugw("Token pair issued", "user_id", userID, "access_expires_at", accessExpiry)

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccess parses and validates an access token
func (s *tokenService) VerifyAccess(tokenString string) (*TokenClaims, error) {
	return s.verify(tokenString, TokenTypeAccess)
}

// VerifyRefresh parses and validates a refresh token
func (s *tokenService) VerifyRefresh(tokenString string) (*TokenClaims, error) {
	return s.verify(tokenString, TokenTypeRefresh)
}

func (s *tokenService) sign(userID int, phoneNumber, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	jti, err := randomTokenID()
	if err != nil {
		return "", err
	}

	claims := TokenClaims{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    "booknest-backend",
			Subject:   fmt.Sprintf("user:%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *tokenService) verify(tokenString, expectedType string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("invalid token: expected %s token", expectedType)
	}

	return claims, nil
}

func randomTokenID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return fmt.Sprintf("%x", bytes), nil
}
