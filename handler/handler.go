package handler

import (
	"booknest-backend/config"
	"booknest-backend/controller"
	_ "booknest-backend/docs" // Import for swagger docs
	"booknest-backend/pkg/logger"
	"booknest-backend/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes registers all HTTP routes and middleware
func RegisterRoutes(
	e *echo.Echo,
	authController *controller.AuthController,
	pricingController *controller.PricingController,
	slotController *controller.SlotController,
	healthController *controller.HealthController,
	tokenService service.TokenService,
	cfg *config.Config,
	logger *logger.Logger,
) {
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware())
	e.Use(RequestLoggerMiddleware(logger))

	// System endpoints
	e.GET("/health", healthController.HealthCheck)
	e.GET("/", healthController.ServiceInfo)

	// Swagger documentation
	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/api/v1")

	// Auth routes (public)
	authGroup := v1.Group("/auth")
	authGroup.POST("/send-otp", authController.SendOTP)
	authGroup.POST("/resend-otp", authController.ResendOTP)
	authGroup.POST("/verify-otp", authController.VerifyOTP)
	authGroup.POST("/refresh-token", authController.RefreshToken)

	// Auth routes (protected)
	sessionGroup := v1.Group("/auth", AuthMiddleware(tokenService, logger))
	sessionGroup.GET("/me", authController.Me)
	sessionGroup.PUT("/me", authController.UpdateMe)
	sessionGroup.POST("/logout", authController.Logout)

	// Pricing routes (public)
	v1.POST("/pricing/quote", pricingController.Quote)

	// Slot routes (public)
	v1.GET("/slots", slotController.ListSlots)
}
