package repository

import (
	"database/sql"
	"fmt"

	"github.com/tanwk/gondotrack/internal/models"
)

// ShiftRepository handles shift-history reads. Writes happen inside
// GondolaRepository.Move so the move stays transactional.
type ShiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ListByGondola lists a gondola's relocations, newest first
func (r *ShiftRepository) ListByGondola(gondolaID int64) ([]*models.ShiftRecord, error) {
	query := `
		SELECT id, gondola_id, from_location, to_location, moved_by, note, moved_at
		FROM shift_records
		WHERE gondola_id = ?
		ORDER BY moved_at DESC
	`

	rows, err := r.db.Query(query, gondolaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift records: %w", err)
	}
	defer rows.Close()

	var shifts []*models.ShiftRecord

	for rows.Next() {
		shift := &models.ShiftRecord{}
		var movedBy, note sql.NullString

		err := rows.Scan(
			&shift.ID,
			&shift.GondolaID,
			&shift.FromLocation,
			&shift.ToLocation,
			&movedBy,
			&note,
			&shift.MovedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}

		shift.MovedBy = movedBy.String
		shift.Note = note.String
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}
