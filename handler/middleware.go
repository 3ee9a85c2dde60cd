package handler

import (
	"net/http"
	"strings"

	"booknest-backend/entity"
	"booknest-backend/pkg/logger"
	"booknest-backend/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests from the access_token cookie, with a
// Bearer header fallback for non-browser clients.
func AuthMiddleware(tokenService service.TokenService, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := ""

			if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			} else if authHeader := c.Request().Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = authHeader[7:]
			}

			if tokenString == "" {
				logger.Warnw("Missing access token", "path", c.Request().URL.Path)
				return c.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Authentication required"))
			}

			claims, err := tokenService.VerifyAccess(tokenString)
			if err != nil {
				logger.Warnw("Invalid access token", "path", c.Request().URL.Path, "error", err)
				return c.JSON(http.StatusUnauthorized, entity.NewErrorResponse("Invalid or expired token"))
			}

			c.Set("user_claims", claims)
			return next(c)
		}
	}
}

// CORSMiddleware creates a CORS middleware
func CORSMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// RequestLoggerMiddleware creates a request logging middleware
func RequestLoggerMiddleware(logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			logger.Infow("HTTP request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"remote_addr", c.RealIP(),
			)

			return err
		}
	}
}
