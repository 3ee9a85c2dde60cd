package controller

import (
	"errors"
	"net/http"
	"time"

	"booknest-backend/config"
	"booknest-backend/entity"
	"booknest-backend/pkg/logger"
	"booknest-backend/service"
	"booknest-backend/validator"

	"github.com/labstack/echo/v4"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// AuthController handles OTP authentication and session HTTP requests
type AuthController struct {
	otpService   service.OTPService
	tokenService service.TokenService
	userService  service.UserService
	validator    *validator.Validator
	cfg          *config.Config
	logger       *logger.Logger
}

// NewAuthController creates a new auth controller instance
func NewAuthController(
	otpService service.OTPService,
	tokenService service.TokenService,
	userService service.UserService,
	v *validator.Validator,
	cfg *config.Config,
	logger *logger.Logger,
) *AuthController {
	return &AuthController{
		otpService:   otpService,
		tokenService: tokenService,
		userService:  userService,
		validator:    v,
		cfg:          cfg,
		logger:       logger,
	}
}

// SendOTP handles OTP generation and dispatch
// @Summary Send OTP
// @Description Generate and send an OTP to the provided phone number via WhatsApp
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body entity.SendOTPRequest true "Send OTP Request"
// @Success 200 {object} entity.APIResponse{data=entity.SendOTPResponse}
// @Failure 400 {object} entity.APIResponse
// @Failure 429 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /auth/send-otp [post]
func (c *AuthController) SendOTP(ctx echo.Context) error {
	return c.handleSend(ctx, "OTP sent successfully")
}

// ResendOTP handles OTP resend requests. Resends run the full send path and
// count against the same rate-limit window.
// @Summary Resend OTP
// @Description Resend an OTP to the provided phone number
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body entity.SendOTPRequest true "Resend OTP Request"
// @Success 200 {object} entity.APIResponse{data=entity.SendOTPResponse}
// @Failure 400 {object} entity.APIResponse
// @Failure 429 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /auth/resend-otp [post]
func (c *AuthController) ResendOTP(ctx echo.Context) error {
	return c.handleSend(ctx, "OTP resent successfully")
}

func (c *AuthController) handleSend(ctx echo.Context, successMessage string) error {
	var req entity.SendOTPRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid request format"))
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse(err.Error()))
	}

	response, err := c.otpService.Send(req.PhoneNumber)
	if err != nil {
		return c.sendErrorResponse(ctx, req.PhoneNumber, err)
	}

	c.logger.Infow("OTP dispatched", "phone_number", response.PhoneNumber)
	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse(successMessage, response))
}

// sendErrorResponse maps OTP send failures onto HTTP statuses and short,
// non-leaking messages. Full provider detail stays in the server logs.
func (c *AuthController) sendErrorResponse(ctx echo.Context, phoneNumber string, err error) error {
	c.logger.Errorw("Failed to send OTP", "phone_number", phoneNumber, "error", err)

	if errors.Is(err, service.ErrRateLimited) {
		return ctx.JSON(http.StatusTooManyRequests, entity.NewErrorResponse(
			"Too many OTP requests. Please try again later."))
	}

	var dispatchErr *service.DispatchError
	if errors.As(err, &dispatchErr) {
		switch dispatchErr.Kind {
		case service.DispatchErrorCredentials:
			return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse(
				"Messaging service is not configured correctly"))
		case service.DispatchErrorRateLimit:
			return ctx.JSON(http.StatusTooManyRequests, entity.NewErrorResponse(
				"Messaging provider is busy. Please try again later."))
		case service.DispatchErrorChannelNotConfigured:
			return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse(
				"Messaging channel is not available"))
		case service.DispatchErrorValidation:
			return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse(
				"Phone number was rejected by the messaging provider"))
		}
	}

	return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to send OTP"))
}

// VerifyOTP handles OTP verification, user upsert and session issuance
// @Summary Verify OTP
// @Description Verify an OTP, create or update the user and issue session cookies
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body entity.VerifyOTPRequest true "Verify OTP Request"
// @Success 200 {object} entity.APIResponse{data=entity.AuthResponse}
// @Failure 400 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx echo.Context) error {
	var req entity.VerifyOTPRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid request format"))
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse(err.Error()))
	}

	user, err := c.otpService.Verify(req.PhoneNumber, req.OTPCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOTP) || errors.Is(err, service.ErrMalformedCode) {
			c.logger.Warnw("OTP verification rejected", "phone_number", req.PhoneNumber, "error", err)
			return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid or expired OTP"))
		}
		c.logger.Errorw("Failed to verify OTP", "phone_number", req.PhoneNumber, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to verify OTP"))
	}

	pair, err := c.tokenService.IssuePair(user.ID, user.PhoneNumber)
	if err != nil {
		c.logger.Errorw("Failed to issue token pair", "user_id", user.ID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to create session"))
	}

	c.setAuthCookies(ctx, pair)

	c.logger.Infow("OTP verified", "user_id", user.ID, "phone_number", user.PhoneNumber)
	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("Login successful", entity.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
	}))
}

// RefreshToken rotates the token pair from a valid refresh token
// @Summary Refresh session
// @Description Rotate the access and refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body entity.RefreshTokenRequest false "Refresh token (cookie fallback)"
// @Success 200 {object} entity.APIResponse{data=entity.AuthResponse}
// @Failure 401 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /auth/refresh-token [post]
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	tokenString := ""
	if cookie, err := ctx.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		tokenString = cookie.Value
	} else {
		var req entity.RefreshTokenRequest
		if err := ctx.Bind(&req); err == nil {
			tokenString = req.RefreshToken
		}
	}

	if tokenString == "" {
		return ctx.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Refresh token is required"))
	}

	claims, err := c.tokenService.VerifyRefresh(tokenString)
	if err != nil {
		c.logger.Warnw("Invalid refresh token", "error", err)
		return ctx.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Invalid or expired refresh token"))
	}

	pair, err := c.tokenService.IssuePair(claims.UserID, claims.PhoneNumber)
	if err != nil {
		c.logger.Errorw("Failed to rotate token pair", "user_id", claims.UserID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to refresh session"))
	}

	c.setAuthCookies(ctx, pair)

	c.logger.Infow("Session refreshed", "user_id", claims.UserID)
	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("Session refreshed", entity.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
	}))
}

// Me returns the authenticated user
// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} entity.APIResponse{data=entity.UserResponse}
// @Failure 401 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	claims, ok := ctx.Get("user_claims").(*service.TokenClaims)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Unauthorized"))
	}

	user, err := c.userService.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, entity.NewErrorResponse("User not found"))
		}
		c.logger.Errorw("Failed to get current user", "user_id", claims.UserID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to retrieve user"))
	}

	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("", user))
}

// UpdateMe updates the authenticated user's profile
// @Summary Update profile
// @Description Update the authenticated user's optional name and email
// @Tags Auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body entity.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} entity.APIResponse{data=entity.UserResponse}
// @Failure 400 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /auth/me [put]
func (c *AuthController) UpdateMe(ctx echo.Context) error {
	claims, ok := ctx.Get("user_claims").(*service.TokenClaims)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Unauthorized"))
	}

	var req entity.UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid request format"))
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse(err.Error()))
	}

	user, err := c.userService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		c.logger.Errorw("Failed to update profile", "user_id", claims.UserID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.NewErrorResponse("Failed to update profile"))
	}

	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("Profile updated", user))
}

// Logout clears both session cookies. Tokens are stateless, so no
// server-side revocation happens; retained tokens expire naturally.
// @Summary Logout
// @Description Clear session cookies
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} entity.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	c.clearAuthCookies(ctx)
	c.logger.Infow("User logged out")
	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("Logged out successfully", nil))
}

// setAuthCookies sets both session cookies with the stated expiries
func (c *AuthController) setAuthCookies(ctx echo.Context, pair *service.TokenPair) {
	ctx.SetCookie(c.buildCookie(AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	ctx.SetCookie(c.buildCookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

// clearAuthCookies clears both session cookies with matching attributes
func (c *AuthController) clearAuthCookies(ctx echo.Context) {
	expired := time.Unix(0, 0)
	ctx.SetCookie(c.buildCookie(AccessTokenCookie, "", expired))
	ctx.SetCookie(c.buildCookie(RefreshTokenCookie, "", expired))
}

func (c *AuthController) buildCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.cfg.IsProduction(),
	}
}
