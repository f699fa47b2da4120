package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// UserRepository handles user data access
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, verified, totp_secret, totp_enabled)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		user.Email,
		user.Name,
		user.PasswordHash,
		boolToInt(user.Verified),
		user.TOTPSecret,
		boolToInt(user.TOTPEnabled),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = ?`, email)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.getOne(`WHERE id = ?`, id)
}

func (r *UserRepository) getOne(where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, verified, totp_secret, totp_enabled, created_at, updated_at
		FROM users ` + where

	user := &models.User{}
	var verified, totpEnabled int

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&verified,
		&user.TOTPSecret,
		&totpEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Verified = verified == 1
	user.TOTPEnabled = totpEnabled == 1

	return user, nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, passwordHash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// SetVerified marks a user's email address as verified
func (r *UserRepository) SetVerified(id int64) error {
	query := `
		UPDATE users
		SET verified = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to set user verified: %w", err)
	}

	return nil
}

// UpdateTOTP stores a user's TOTP secret and enablement state
func (r *UserRepository) UpdateTOTP(id int64, secret string, enabled bool) error {
	query := `
		UPDATE users
		SET totp_secret = ?, totp_enabled = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, secret, boolToInt(enabled), id); err != nil {
		return fmt.Errorf("failed to update totp settings: %w", err)
	}

	return nil
}

// List lists all users
func (r *UserRepository) List() ([]*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, verified, totp_secret, totp_enabled, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User

	for rows.Next() {
		user := &models.User{}
		var verified, totpEnabled int

		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.PasswordHash,
			&verified,
			&user.TOTPSecret,
			&totpEnabled,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user.Verified = verified == 1
		user.TOTPEnabled = totpEnabled == 1
		users = append(users, user)
	}

	return users, rows.Err()
}

// boolToInt converts a bool to the 0/1 representation used in the schema
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
