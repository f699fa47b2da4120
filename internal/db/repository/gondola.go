package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// GondolaRepository handles gondola data access
type GondolaRepository struct {
	db *sql.DB
}

// NewGondolaRepository creates a new gondola repository
func NewGondolaRepository(db *sql.DB) *GondolaRepository {
	return &GondolaRepository{db: db}
}

// Create creates a new gondola
func (r *GondolaRepository) Create(gondola *models.Gondola) error {
	query := `
		INSERT INTO gondolas (serial_number, project_id, location, status, installed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		gondola.SerialNumber,
		gondola.ProjectID,
		gondola.Location,
		gondola.Status,
		nullableTime(gondola.InstalledAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create gondola: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	gondola.ID = id
	gondola.CreatedAt = time.Now()
	gondola.UpdatedAt = time.Now()

	return nil
}

// GetByID retrieves a gondola by ID
func (r *GondolaRepository) GetByID(id int64) (*models.Gondola, error) {
	return r.getOne(`WHERE id = ?`, id)
}

// GetBySerial retrieves a gondola by serial number
func (r *GondolaRepository) GetBySerial(serial string) (*models.Gondola, error) {
	return r.getOne(`WHERE serial_number = ?`, serial)
}

func (r *GondolaRepository) getOne(where string, arg interface{}) (*models.Gondola, error) {
	query := `
		SELECT id, serial_number, project_id, location, status, installed_at, created_at, updated_at
		FROM gondolas ` + where

	gondola := &models.Gondola{}
	var projectID sql.NullInt64
	var location sql.NullString
	var installedAt sql.NullTime

	err := r.db.QueryRow(query, arg).Scan(
		&gondola.ID,
		&gondola.SerialNumber,
		&projectID,
		&location,
		&gondola.Status,
		&installedAt,
		&gondola.CreatedAt,
		&gondola.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gondola: %w", err)
	}

	if projectID.Valid {
		gondola.ProjectID = &projectID.Int64
	}
	gondola.Location = location.String
	gondola.InstalledAt = timePtr(installedAt)

	return gondola, nil
}

// Update updates a gondola's assignment, location and status
func (r *GondolaRepository) Update(gondola *models.Gondola) error {
	query := `
		UPDATE gondolas
		SET project_id = ?, location = ?, status = ?, installed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	res, err := r.db.Exec(query,
		gondola.ProjectID,
		gondola.Location,
		gondola.Status,
		nullableTime(gondola.InstalledAt),
		gondola.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update gondola: %w", err)
	}

	return requireAffected(res)
}

// List lists gondolas, optionally filtered by project
func (r *GondolaRepository) List(projectID *int64) ([]*models.Gondola, error) {
	query := `
		SELECT id, serial_number, project_id, location, status, installed_at, created_at, updated_at
		FROM gondolas
	`
	var args []interface{}

	if projectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gondolas: %w", err)
	}
	defer rows.Close()

	var gondolas []*models.Gondola

	for rows.Next() {
		gondola := &models.Gondola{}
		var pid sql.NullInt64
		var location sql.NullString
		var installedAt sql.NullTime

		err := rows.Scan(
			&gondola.ID,
			&gondola.SerialNumber,
			&pid,
			&location,
			&gondola.Status,
			&installedAt,
			&gondola.CreatedAt,
			&gondola.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gondola: %w", err)
		}

		if pid.Valid {
			gondola.ProjectID = &pid.Int64
		}
		gondola.Location = location.String
		gondola.InstalledAt = timePtr(installedAt)
		gondolas = append(gondolas, gondola)
	}

	return gondolas, rows.Err()
}

// Delete deletes a gondola
func (r *GondolaRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM gondolas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gondola: %w", err)
	}

	return requireAffected(res)
}

// Move relocates a gondola. The location update and the shift-history insert
// run in one transaction so the two tables cannot diverge on partial failure.
func (r *GondolaRepository) Move(id int64, toLocation, movedBy, note string, at time.Time) (*models.ShiftRecord, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin move transaction: %w", err)
	}
	defer tx.Rollback()

	var fromLocation sql.NullString
	err = tx.QueryRow(`SELECT location FROM gondolas WHERE id = ?`, id).Scan(&fromLocation)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read gondola location: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE gondolas
		SET location = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, toLocation, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update gondola location: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO shift_records (gondola_id, from_location, to_location, moved_by, note, moved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, fromLocation.String, toLocation, movedBy, note, at.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert shift record: %w", err)
	}

	shiftID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit move transaction: %w", err)
	}

	return &models.ShiftRecord{
		ID:           shiftID,
		GondolaID:    id,
		FromLocation: fromLocation.String,
		ToLocation:   toLocation,
		MovedBy:      movedBy,
		Note:         note,
		MovedAt:      at,
	}, nil
}
