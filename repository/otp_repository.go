package repository

import (
	"database/sql"
	"fmt"
	"time"

	"booknest-backend/entity"

	"github.com/jmoiron/sqlx"
)

// OTPRepository interface defines OTP data operations
type OTPRepository interface {
	Create(otp *entity.OTPVerification) (*entity.OTPVerification, error)
	GetPendingByPhoneAndCode(phoneNumber, code string) (*entity.OTPVerification, error)
	MarkVerified(id int) error
	DeleteExpired() (int64, error)
}

// otpRepository implements OTPRepository interface
type otpRepository struct {
	db *sqlx.DB
}

// NewOTPRepository creates a new OTP repository instance
func NewOTPRepository(db *sqlx.DB) OTPRepository {
	return &otpRepository{
		db: db,
	}
}

// Create persists a new pending OTP record
func (r *otpRepository) Create(otp *entity.OTPVerification) (*entity.OTPVerification, error) {
	query := `
		INSERT INTO otp_verifications (phone_number, code, status, expires_at, created_at)
		VALUES (:phone_number, :code, :status, :expires_at, :created_at)
		RETURNING id, phone_number, code, status, expires_at, created_at, verified_at
	`

	otp.CreatedAt = time.Now()
	otp.Status = entity.OTPStatusPending

	rows, err := r.db.NamedQuery(query, otp)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTP: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created OTP")
	}

	var createdOTP entity.OTPVerification
	if err := rows.StructScan(&createdOTP); err != nil {
		return nil, fmt.Errorf("failed to scan created OTP: %w", err)
	}

	return &createdOTP, nil
}

// GetPendingByPhoneAndCode retrieves the most recent pending, unexpired OTP
// matching phone number and code. Multiple pending records per phone are
// tolerated; the newest wins.
func (r *otpRepository) GetPendingByPhoneAndCode(phoneNumber, code string) (*entity.OTPVerification, error) {
	query := `
		SELECT id, phone_number, code, status, expires_at, created_at, verified_at
		FROM otp_verifications
		WHERE phone_number = $1 AND code = $2 AND status = 'pending' AND expires_at > CURRENT_TIMESTAMP
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTPVerification
	err := r.db.Get(&otp, query, phoneNumber, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	return &otp, nil
}

// MarkVerified transitions a pending OTP to verified. The status guard makes
// concurrent verification attempts resolve at the store.
func (r *otpRepository) MarkVerified(id int) error {
	query := `
		UPDATE otp_verifications
		SET status = 'verified', verified_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to mark OTP as verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("OTP not found or already verified")
	}

	return nil
}

// DeleteExpired deletes all OTP records whose expiry has passed
func (r *otpRepository) DeleteExpired() (int64, error) {
	query := `DELETE FROM otp_verifications WHERE expires_at < CURRENT_TIMESTAMP`

	result, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTPs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
