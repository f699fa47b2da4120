package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// RepairRepository handles repair log data access
type RepairRepository struct {
	db *sql.DB
}

// NewRepairRepository creates a new repair repository
func NewRepairRepository(db *sql.DB) *RepairRepository {
	return &RepairRepository{db: db}
}

// Create creates a new repair log entry
func (r *RepairRepository) Create(repair *models.RepairLog) error {
	query := `
		INSERT INTO repair_logs (gondola_id, description, reported_by)
		VALUES (?, ?, ?)
	`

	result, err := r.db.Exec(query,
		repair.GondolaID,
		repair.Description,
		repair.ReportedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create repair log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	repair.ID = id
	repair.CreatedAt = time.Now()

	return nil
}

// Resolve marks a repair as resolved at the given time
func (r *RepairRepository) Resolve(id int64, at time.Time) error {
	query := `
		UPDATE repair_logs
		SET resolved = 1, resolved_at = ?
		WHERE id = ? AND resolved = 0
	`

	res, err := r.db.Exec(query, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve repair log: %w", err)
	}

	return requireAffected(res)
}

// ListByGondola lists a gondola's repair logs, newest first
func (r *RepairRepository) ListByGondola(gondolaID int64) ([]*models.RepairLog, error) {
	query := `
		SELECT id, gondola_id, description, reported_by, resolved, resolved_at, created_at
		FROM repair_logs
		WHERE gondola_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, gondolaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repair logs: %w", err)
	}
	defer rows.Close()

	var repairs []*models.RepairLog

	for rows.Next() {
		repair := &models.RepairLog{}
		var reportedBy sql.NullString
		var resolved int
		var resolvedAt sql.NullTime

		err := rows.Scan(
			&repair.ID,
			&repair.GondolaID,
			&repair.Description,
			&reportedBy,
			&resolved,
			&resolvedAt,
			&repair.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repair log: %w", err)
		}

		repair.ReportedBy = reportedBy.String
		repair.Resolved = resolved == 1
		repair.ResolvedAt = timePtr(resolvedAt)
		repairs = append(repairs, repair)
	}

	return repairs, rows.Err()
}
