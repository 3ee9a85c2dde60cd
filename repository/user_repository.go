package repository

import (
	"database/sql"
	"fmt"
	"time"

	"booknest-backend/entity"

	"github.com/jmoiron/sqlx"
)

// UserRepository interface defines user data operations
type UserRepository interface {
	Create(user *entity.User) (*entity.User, error)
	GetByID(id int) (*entity.User, error)
	GetByPhoneNumber(phoneNumber string) (*entity.User, error)
	UpdateLastLogin(phoneNumber string) error
	UpdateProfile(id int, name, email *string) (*entity.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// Create creates a new user. Users are created on first successful OTP
// verification, so is_verified starts true and last_login_at equals
// registered_at.
func (r *userRepository) Create(user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (phone_number, name, email, is_verified, registered_at, last_login_at)
		VALUES (:phone_number, :name, :email, :is_verified, :registered_at, :last_login_at)
		RETURNING id, phone_number, name, email, is_verified, registered_at, last_login_at
	`

	now := time.Now()
	user.RegisteredAt = now
	user.LastLoginAt = &now
	user.IsVerified = true

	rows, err := r.db.NamedQuery(query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created user")
	}

	var createdUser entity.User
	if err := rows.StructScan(&createdUser); err != nil {
		return nil, fmt.Errorf("failed to scan created user: %w", err)
	}

	return &createdUser, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(id int) (*entity.User, error) {
	query := `
		SELECT id, phone_number, name, email, is_verified, registered_at, last_login_at
		FROM users
		WHERE id = $1
	`

	var user entity.User
	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByPhoneNumber retrieves a user by phone number
func (r *userRepository) GetByPhoneNumber(phoneNumber string) (*entity.User, error) {
	query := `
		SELECT id, phone_number, name, email, is_verified, registered_at, last_login_at
		FROM users
		WHERE phone_number = $1
	`

	var user entity.User
	err := r.db.Get(&user, query, phoneNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by phone number: %w", err)
	}

	return &user, nil
}

// UpdateLastLogin refreshes the login timestamp and verified flag for a user
func (r *userRepository) UpdateLastLogin(phoneNumber string) error {
	query := `
		UPDATE users
		SET last_login_at = CURRENT_TIMESTAMP, is_verified = TRUE
		WHERE phone_number = $1
	`

	result, err := r.db.Exec(query, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpdateProfile updates the optional name and email attributes
func (r *userRepository) UpdateProfile(id int, name, email *string) (*entity.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name), email = COALESCE($3, email)
		WHERE id = $1
		RETURNING id, phone_number, name, email, is_verified, registered_at, last_login_at
	`

	var user entity.User
	err := r.db.Get(&user, query, id, name, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}
