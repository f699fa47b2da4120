package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// InspectionRepository handles inspection data access
type InspectionRepository struct {
	db *sql.DB
}

// NewInspectionRepository creates a new inspection repository
func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Create creates a new inspection record
func (r *InspectionRepository) Create(inspection *models.Inspection) error {
	query := `
		INSERT INTO inspections (gondola_id, inspector, result, notes, inspected_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		inspection.GondolaID,
		inspection.Inspector,
		inspection.Result,
		inspection.Notes,
		inspection.InspectedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	inspection.ID = id
	inspection.CreatedAt = time.Now()

	return nil
}

// ListByGondola lists a gondola's inspections, most recent first
func (r *InspectionRepository) ListByGondola(gondolaID int64) ([]*models.Inspection, error) {
	query := `
		SELECT id, gondola_id, inspector, result, notes, inspected_at, created_at
		FROM inspections
		WHERE gondola_id = ?
		ORDER BY inspected_at DESC
	`

	rows, err := r.db.Query(query, gondolaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var inspections []*models.Inspection

	for rows.Next() {
		inspection := &models.Inspection{}
		var notes sql.NullString

		err := rows.Scan(
			&inspection.ID,
			&inspection.GondolaID,
			&inspection.Inspector,
			&inspection.Result,
			&notes,
			&inspection.InspectedAt,
			&inspection.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}

		inspection.Notes = notes.String
		inspections = append(inspections, inspection)
	}

	return inspections, rows.Err()
}
