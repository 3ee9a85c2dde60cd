package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

type Application struct {
	Environment             string // development or production
	GracefulShutdownTimeout time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool
}

type JWT struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type OTP struct {
	Length          int
	ExpirationTime  time.Duration
	TestPhoneNumber string
	TestCode        string
}

type RateLimit struct {
	MaxRequests    int
	WindowDuration time.Duration
}

type WhatsApp struct {
	BaseURL      string
	APIKey       string
	TemplateName string
	Timeout      time.Duration
}

type Booking struct {
	SlotOpenHour  int
	SlotCloseHour int
}

type Config struct {
	Application Application
	HTTPServer  HTTPServer
	Database    Database
	Redis       Redis
	Logger      Logger
	Swagger     Swagger
	JWT         JWT
	OTP         OTP
	RateLimit   RateLimit
	WhatsApp    WhatsApp
	Booking     Booking
}

// IsProduction reports whether the service runs in production mode.
// Rate limiting and the dev-only OTP diagnostics key off this flag.
func (c *Config) IsProduction() bool {
	return c.Application.Environment == "production"
}

func Load() (*Config, error) {
	// Optional .env for local development; deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Application: Application{
			Environment:             getEnvWithDefault("APP_ENVIRONMENT", "development"),
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "booknest"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "booknest"),
			Name:     getEnvWithDefault("DATABASE_NAME", "booknest"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Host:     getEnvWithDefault("REDIS_HOST", "redis"),
			Port:     parseIntWithDefault("REDIS_PORT", 6379),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Swagger: Swagger{
			Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
		},
		JWT: JWT{
			Secret:     os.Getenv("JWT_SECRET"),
			AccessTTL:  parseDurationWithDefault("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: parseDurationWithDefault("JWT_REFRESH_TTL", 365*24*time.Hour),
		},
		OTP: OTP{
			Length:          parseIntWithDefault("OTP_LENGTH", 6),
			ExpirationTime:  parseDurationWithDefault("OTP_EXPIRATION_TIME", 10*time.Minute),
			TestPhoneNumber: getEnvWithDefault("OTP_TEST_PHONE_NUMBER", "+919999999999"),
			TestCode:        getEnvWithDefault("OTP_TEST_CODE", "123456"),
		},
		RateLimit: RateLimit{
			MaxRequests:    parseIntWithDefault("RATE_LIMIT_MAX_REQUESTS", 3),
			WindowDuration: parseDurationWithDefault("RATE_LIMIT_WINDOW_DURATION", time.Hour),
		},
		WhatsApp: WhatsApp{
			BaseURL:      getEnvWithDefault("WHATSAPP_BASE_URL", "https://backend.aisensy.com"),
			APIKey:       getEnvWithDefault("WHATSAPP_API_KEY", ""),
			TemplateName: getEnvWithDefault("WHATSAPP_TEMPLATE_NAME", "otp_login"),
			Timeout:      parseDurationWithDefault("WHATSAPP_TIMEOUT", 15*time.Second),
		},
		Booking: Booking{
			SlotOpenHour:  parseIntWithDefault("BOOKING_SLOT_OPEN_HOUR", 9),
			SlotCloseHour: parseIntWithDefault("BOOKING_SLOT_CLOSE_HOUR", 21),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWT.Secret) < minJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
