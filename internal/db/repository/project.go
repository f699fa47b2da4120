package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// ProjectRepository handles project data access
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (name, client, site_address, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		project.Name,
		project.Client,
		project.SiteAddress,
		nullableTime(project.StartDate),
		nullableTime(project.EndDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(id int64) (*models.Project, error) {
	query := `
		SELECT id, name, client, site_address, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	project := &models.Project{}
	var siteAddress sql.NullString
	var startDate, endDate sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Client,
		&siteAddress,
		&startDate,
		&endDate,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project.SiteAddress = siteAddress.String
	project.StartDate = timePtr(startDate)
	project.EndDate = timePtr(endDate)

	return project, nil
}

// Update updates a project
func (r *ProjectRepository) Update(project *models.Project) error {
	query := `
		UPDATE projects
		SET name = ?, client = ?, site_address = ?, start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	res, err := r.db.Exec(query,
		project.Name,
		project.Client,
		project.SiteAddress,
		nullableTime(project.StartDate),
		nullableTime(project.EndDate),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return requireAffected(res)
}

// List lists all projects
func (r *ProjectRepository) List() ([]*models.Project, error) {
	query := `
		SELECT id, name, client, site_address, start_date, end_date, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project

	for rows.Next() {
		project := &models.Project{}
		var siteAddress sql.NullString
		var startDate, endDate sql.NullTime

		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Client,
			&siteAddress,
			&startDate,
			&endDate,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		project.SiteAddress = siteAddress.String
		project.StartDate = timePtr(startDate)
		project.EndDate = timePtr(endDate)
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// Delete deletes a project
func (r *ProjectRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return requireAffected(res)
}

// nullableTime converts a *time.Time to a driver-friendly value
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// timePtr converts a sql.NullTime to a *time.Time
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// requireAffected maps zero affected rows to ErrNotFound
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
