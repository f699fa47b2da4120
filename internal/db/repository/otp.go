package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// OTPRepository handles one-time passcode data access.
// Rows are never deleted; stale codes are soft-invalidated by setting
// expires_at to the current time and otherwise ignored by the filters here.
type OTPRepository struct {
	db *sql.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create persists a new passcode row
func (r *OTPRepository) Create(otp *models.OTP) error {
	query := `
		INSERT INTO otps (user_id, code, purpose, expires_at, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		otp.UserID,
		otp.Code,
		otp.Purpose,
		otp.ExpiresAt.UTC(),
		boolToInt(otp.Verified),
		otp.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	otp.ID = id
	return nil
}

// InvalidateActive sets expires_at to now on all currently-active codes for
// the user matching the given purposes, so a newly issued code becomes the
// only valid one.
func (r *OTPRepository) InvalidateActive(userID int64, purposes []string, now time.Time) error {
	if len(purposes) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(purposes))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		UPDATE otps
		SET expires_at = ?
		WHERE user_id = ? AND verified = 0 AND expires_at > ? AND purpose IN (%s)
	`, placeholders)

	args := []interface{}{now.UTC(), userID, now.UTC()}
	for _, p := range purposes {
		args = append(args, p)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to invalidate active otps: %w", err)
	}

	return nil
}

// FindActive returns the most recently created unverified, unexpired code
// matching the submitted value. Ties are broken by created_at descending.
func (r *OTPRepository) FindActive(userID int64, code string, now time.Time) (*models.OTP, error) {
	query := `
		SELECT id, user_id, code, purpose, expires_at, verified, created_at
		FROM otps
		WHERE user_id = ? AND code = ? AND verified = 0 AND expires_at > ?
		  AND purpose IN (?, ?)
		ORDER BY created_at DESC
		LIMIT 1
	`

	otp := &models.OTP{}
	var verified int

	err := r.db.QueryRow(query, userID, code, now.UTC(),
		models.OTPPurposeSignup, models.OTPPurposeForgotPassword).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Code,
		&otp.Purpose,
		&otp.ExpiresAt,
		&verified,
		&otp.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}

	otp.Verified = verified == 1
	return otp, nil
}

// MarkVerified marks a passcode as consumed
func (r *OTPRepository) MarkVerified(id int64) error {
	query := `UPDATE otps SET verified = 1 WHERE id = ?`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}

	return nil
}

// ListByUser returns all passcode rows for a user, newest first
func (r *OTPRepository) ListByUser(userID int64) ([]*models.OTP, error) {
	query := `
		SELECT id, user_id, code, purpose, expires_at, verified, created_at
		FROM otps
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list otps: %w", err)
	}
	defer rows.Close()

	var otps []*models.OTP

	for rows.Next() {
		otp := &models.OTP{}
		var verified int

		err := rows.Scan(
			&otp.ID,
			&otp.UserID,
			&otp.Code,
			&otp.Purpose,
			&otp.ExpiresAt,
			&verified,
			&otp.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan otp: %w", err)
		}

		otp.Verified = verified == 1
		otps = append(otps, otp)
	}

	return otps, rows.Err()
}
