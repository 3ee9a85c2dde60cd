package repository

import (
	"time"
)

// RateLimitRepository interface defines send-OTP rate limiting operations
type RateLimitRepository interface {
	// Increment records one send attempt for the phone number and returns the
	// attempt count inside the current window.
	Increment(phoneNumber string, window time.Duration) (int, error)
	// Count returns the attempt count inside the current window without
	// recording an attempt.
	Count(phoneNumber string) (int, error)
}
