package entity

import (
	"time"
)

// OTPStatus is the lifecycle state of an OTP record
type OTPStatus string

const (
	OTPStatusPending  OTPStatus = "pending"
	OTPStatusVerified OTPStatus = "verified"
	OTPStatusExpired  OTPStatus = "expired"
)

// OTPVerification represents an OTP code issued for a phone number
type OTPVerification struct {
	ID          int        `db:"id" json:"id"`
	PhoneNumber string     `db:"phone_number" json:"phone_number" validate:"required,phone_number"`
	Code        string     `db:"code" json:"code"`
	Status      OTPStatus  `db:"status" json:"status"`
	ExpiresAt   time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	VerifiedAt  *time.Time `db:"verified_at" json:"verified_at"`
}

// TableName returns the table name for the OTPVerification entity
func (OTPVerification) TableName() string {
	return "otp_verifications"
}

// SendOTPRequest represents the request to send an OTP
type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_number"`
}

// VerifyOTPRequest represents the request to verify an OTP
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_number"`
	OTPCode     string `json:"otp_code" validate:"required,otp_code"`
}

// SendOTPResponse is returned after an OTP has been dispatched.
// Code and Warning are only populated in non-production mode when the
// messaging channel is not configured.
type SendOTPResponse struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
	Code        string    `json:"otp_code,omitempty"`
	Warning     string    `json:"warning,omitempty"`
}

// AuthResponse is returned after successful verification or token refresh
type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// RefreshTokenRequest carries the refresh token when the cookie is absent
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
