package entity

import (
	"time"
)

// User represents a user in the system, keyed by phone number
type User struct {
	ID           int        `db:"id" json:"id"`
	PhoneNumber  string     `db:"phone_number" json:"phone_number" validate:"required,phone_number"`
	Name         *string    `db:"name" json:"name"`
	Email        *string    `db:"email" json:"email"`
	IsVerified   bool       `db:"is_verified" json:"is_verified"`
	RegisteredAt time.Time  `db:"registered_at" json:"registered_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at"`
}

// TableName returns the table name for the User entity
func (User) TableName() string {
	return "users"
}

// UserResponse is the sanitized user projection returned to clients
type UserResponse struct {
	ID           int        `json:"id"`
	PhoneNumber  string     `json:"phone_number"`
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// ToResponse converts a User to its sanitized projection
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		PhoneNumber:  u.PhoneNumber,
		Name:         u.Name,
		Email:        u.Email,
		IsVerified:   u.IsVerified,
		RegisteredAt: u.RegisteredAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}
