package test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"booknest-backend/entity"
	"booknest-backend/migrations"
	"booknest-backend/pkg/logger"
	"booknest-backend/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// TestDB wraps a test database connection
type TestDB struct {
	DB *sqlx.DB
}

// SetupTestDB connects to the test database and runs migrations
func SetupTestDB(t *testing.T) *TestDB {
	host := getEnvOrDefault("TEST_DB_HOST", "localhost")
	port := getEnvOrDefault("TEST_DB_PORT", "5432")
	user := getEnvOrDefault("TEST_DB_USER", "booknest")
	password := getEnvOrDefault("TEST_DB_PASSWORD", "booknest")

	baseDBName := getEnvOrDefault("POSTGRES_DB", "booknest")
	dbName := getEnvOrDefault("TEST_DB_NAME", baseDBName+"_test")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)

	db, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err, "Failed to connect to test database")

	// Migration path depends on where the test binary runs
	migrationPaths := []string{"./migrations", "../migrations", "/app/migrations"}
	for _, path := range migrationPaths {
		err = migrations.RunMigrations(db.DB, path)
		if err == nil {
			break
		}
	}
	require.NoError(t, err, "Failed to run test migrations")

	return &TestDB{DB: db}
}

// Close closes the test database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// CleanTables removes all data from tables (for test isolation)
func (tdb *TestDB) CleanTables(t *testing.T) {
	_, err := tdb.DB.Exec("TRUNCATE TABLE otp_verifications, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to clean test tables")
}

// CreateTestUser creates a test user in the database
func (tdb *TestDB) CreateTestUser(t *testing.T, phoneNumber string) *entity.User {
	userRepo := repository.NewUserRepository(tdb.DB)
	createdUser, err := userRepo.Create(&entity.User{PhoneNumber: phoneNumber})
	require.NoError(t, err, "Failed to create test user")

	return createdUser
}

// CreateTestOTP creates a test OTP record in the database
func (tdb *TestDB) CreateTestOTP(t *testing.T, phoneNumber, code string, expiresAt time.Time) *entity.OTPVerification {
	otpRepo := repository.NewOTPRepository(tdb.DB)
	createdOTP, err := otpRepo.Create(&entity.OTPVerification{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   expiresAt,
	})
	require.NoError(t, err, "Failed to create test OTP")

	return createdOTP
}

// CreateExpiredOTP creates an already-expired OTP record
func (tdb *TestDB) CreateExpiredOTP(t *testing.T, phoneNumber, code string) *entity.OTPVerification {
	return tdb.CreateTestOTP(t, phoneNumber, code, time.Now().Add(-5*time.Minute))
}

// CreateValidOTP creates an OTP record that expires in 2 minutes
func (tdb *TestDB) CreateValidOTP(t *testing.T, phoneNumber, code string) *entity.OTPVerification {
	return tdb.CreateTestOTP(t, phoneNumber, code, time.Now().Add(2*time.Minute))
}

// GetTestLogger creates a test logger
func GetTestLogger() *logger.Logger {
	log, err := logger.New("debug", "development")
	if err != nil {
		panic(fmt.Sprintf("Failed to create test logger: %v", err))
	}
	return log
}

// AssertUserExists asserts that a user exists with the given phone number
func (tdb *TestDB) AssertUserExists(t *testing.T, phoneNumber string) *entity.User {
	userRepo := repository.NewUserRepository(tdb.DB)
	user, err := userRepo.GetByPhoneNumber(phoneNumber)
	require.NoError(t, err, "Failed to get user")
	require.NotNil(t, user, "User should exist")
	return user
}

// AssertUserCount asserts the total number of users in the database
func (tdb *TestDB) AssertUserCount(t *testing.T, expectedCount int) {
	var count int
	err := tdb.DB.Get(&count, "SELECT COUNT(*) FROM users")
	require.NoError(t, err, "Failed to count users")
	require.Equal(t, expectedCount, count, "User count mismatch")
}

// AssertOTPStatus asserts the lifecycle status of an OTP record
func (tdb *TestDB) AssertOTPStatus(t *testing.T, otpID int, expected entity.OTPStatus) {
	var status entity.OTPStatus
	err := tdb.DB.Get(&status, "SELECT status FROM otp_verifications WHERE id = $1", otpID)
	require.NoError(t, err, "Failed to get OTP status")
	require.Equal(t, expected, status, "OTP status mismatch")
}

// AssertOTPVerified asserts that an OTP is verified with a timestamp set
func (tdb *TestDB) AssertOTPVerified(t *testing.T, otpID int) {
	var status entity.OTPStatus
	var verifiedAt *time.Time
	err := tdb.DB.QueryRow("SELECT status, verified_at FROM otp_verifications WHERE id = $1", otpID).
		Scan(&status, &verifiedAt)
	require.NoError(t, err, "Failed to get OTP status")
	require.Equal(t, entity.OTPStatusVerified, status, "OTP should be verified")
	require.NotNil(t, verifiedAt, "OTP should have verified_at timestamp")
}

// AssertLastLoginUpdated asserts that the user's last login timestamp was recently updated
func (tdb *TestDB) AssertLastLoginUpdated(t *testing.T, phoneNumber string, within time.Duration) {
	var lastLoginAt *time.Time
	err := tdb.DB.Get(&lastLoginAt, "SELECT last_login_at FROM users WHERE phone_number = $1", phoneNumber)
	require.NoError(t, err, "Failed to get last login time")
	require.NotNil(t, lastLoginAt, "Last login should be set")

	timeSinceLogin := time.Since(*lastLoginAt)
	require.True(t, timeSinceLogin <= within,
		"Last login should be within %v, but was %v ago", within, timeSinceLogin)
}

// GetPendingOTPCount returns the number of pending, unexpired OTPs for a phone number
func (tdb *TestDB) GetPendingOTPCount(t *testing.T, phoneNumber string) int {
	var count int
	err := tdb.DB.Get(&count,
		"SELECT COUNT(*) FROM otp_verifications WHERE phone_number = $1 AND status = 'pending' AND expires_at > NOW()",
		phoneNumber)
	require.NoError(t, err, "Failed to count pending OTPs")
	return count
}

// GetTotalOTPCount returns the total number of OTPs for a phone number
func (tdb *TestDB) GetTotalOTPCount(t *testing.T, phoneNumber string) int {
	var count int
	err := tdb.DB.Get(&count, "SELECT COUNT(*) FROM otp_verifications WHERE phone_number = $1", phoneNumber)
	require.NoError(t, err, "Failed to count total OTPs")
	return count
}

// GenerateTestPhoneNumber generates a normalized test phone number with optional suffix
func GenerateTestPhoneNumber(suffix string) string {
	if suffix == "" {
		return "+919876543210"
	}
	return fmt.Sprintf("+9198765432%s", suffix)
}

// GenerateTestOTPCode generates a test OTP code
func GenerateTestOTPCode(suffix string) string {
	if suffix == "" {
		return "123456"
	}
	return fmt.Sprintf("12345%s", suffix)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
