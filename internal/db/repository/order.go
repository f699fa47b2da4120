package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// OrderRepository handles delivery order data access
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates a new delivery order
func (r *OrderRepository) Create(order *models.DeliveryOrder) error {
	query := `
		INSERT INTO delivery_orders (reference, project_id, gondola_id, status, items, scheduled_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		order.Reference,
		order.ProjectID,
		order.GondolaID,
		order.Status,
		order.Items,
		nullableTime(order.ScheduledDate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create delivery order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	order.ID = id
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	return nil
}

// GetByID retrieves a delivery order by ID
func (r *OrderRepository) GetByID(id int64) (*models.DeliveryOrder, error) {
	query := `
		SELECT id, reference, project_id, gondola_id, status, items, scheduled_date, created_at, updated_at
		FROM delivery_orders
		WHERE id = ?
	`

	order := &models.DeliveryOrder{}
	var gondolaID sql.NullInt64
	var items sql.NullString
	var scheduled sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&order.ID,
		&order.Reference,
		&order.ProjectID,
		&gondolaID,
		&order.Status,
		&items,
		&scheduled,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery order: %w", err)
	}

	if gondolaID.Valid {
		order.GondolaID = &gondolaID.Int64
	}
	order.Items = items.String
	order.ScheduledDate = timePtr(scheduled)

	return order, nil
}

// UpdateStatus transitions a delivery order's status
func (r *OrderRepository) UpdateStatus(id int64, status string) error {
	query := `
		UPDATE delivery_orders
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	res, err := r.db.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update delivery order status: %w", err)
	}

	return requireAffected(res)
}

// ListByProject lists a project's delivery orders, newest first
func (r *OrderRepository) ListByProject(projectID int64) ([]*models.DeliveryOrder, error) {
	query := `
		SELECT id, reference, project_id, gondola_id, status, items, scheduled_date, created_at, updated_at
		FROM delivery_orders
		WHERE project_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.DeliveryOrder

	for rows.Next() {
		order := &models.DeliveryOrder{}
		var gondolaID sql.NullInt64
		var items sql.NullString
		var scheduled sql.NullTime

		err := rows.Scan(
			&order.ID,
			&order.Reference,
			&order.ProjectID,
			&gondolaID,
			&order.Status,
			&items,
			&scheduled,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery order: %w", err)
		}

		if gondolaID.Valid {
			order.GondolaID = &gondolaID.Int64
		}
		order.Items = items.String
		order.ScheduledDate = timePtr(scheduled)
		orders = append(orders, order)
	}

	return orders, rows.Err()
}
