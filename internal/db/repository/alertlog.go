package repository

import (
	"database/sql"
	"fmt"

	"github.com/tanwk/gondotrack/internal/models"
)

// AlertLogRepository handles the notification send-log
type AlertLogRepository struct {
	db *sql.DB
}

// NewAlertLogRepository creates a new alert log repository
func NewAlertLogRepository(db *sql.DB) *AlertLogRepository {
	return &AlertLogRepository{db: db}
}

// Create records one attempted alert send
func (r *AlertLogRepository) Create(entry *models.AlertLog) error {
	query := `
		INSERT INTO alert_logs (subscription_id, gondola_id, email, document_count, success, error_msg, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		entry.SubscriptionID,
		entry.GondolaID,
		entry.Email,
		entry.DocumentCount,
		boolToInt(entry.Success),
		entry.ErrorMsg,
		entry.SentAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create alert log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// List lists recent alert log entries, newest first
func (r *AlertLogRepository) List(limit int) ([]*models.AlertLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, subscription_id, gondola_id, email, document_count, success, error_msg, sent_at
		FROM alert_logs
		ORDER BY sent_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AlertLog

	for rows.Next() {
		entry := &models.AlertLog{}
		var subscriptionID sql.NullInt64
		var success int
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&subscriptionID,
			&entry.GondolaID,
			&entry.Email,
			&entry.DocumentCount,
			&success,
			&errorMsg,
			&entry.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert log: %w", err)
		}

		if subscriptionID.Valid {
			entry.SubscriptionID = &subscriptionID.Int64
		}
		entry.Success = success == 1
		entry.ErrorMsg = errorMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
