package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// SubscriptionRepository handles certificate-alert subscription data access
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert creates or updates the subscription keyed by (gondola_id, email).
// last_sent is preserved on update so the dedup gate keeps its history.
func (r *SubscriptionRepository) Upsert(sub *models.CertAlertSubscription) error {
	query := `
		INSERT INTO cert_alert_subscriptions (gondola_id, email, threshold_days, frequency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (gondola_id, email) DO UPDATE
		SET threshold_days = excluded.threshold_days,
		    frequency = excluded.frequency,
		    updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(query,
		sub.GondolaID,
		sub.Email,
		sub.ThresholdDays,
		sub.Frequency,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	stored, err := r.GetByGondolaAndEmail(sub.GondolaID, sub.Email)
	if err != nil {
		return err
	}
	*sub = *stored

	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(id int64) (*models.CertAlertSubscription, error) {
	return r.getOne(`WHERE id = ?`, id)
}

// GetByGondolaAndEmail retrieves the subscription for a gondola/recipient pair
func (r *SubscriptionRepository) GetByGondolaAndEmail(gondolaID int64, email string) (*models.CertAlertSubscription, error) {
	return r.getOne(`WHERE gondola_id = ? AND email = ?`, gondolaID, email)
}

func (r *SubscriptionRepository) getOne(where string, args ...interface{}) (*models.CertAlertSubscription, error) {
	query := `
		SELECT id, gondola_id, email, threshold_days, frequency, last_sent, created_at, updated_at
		FROM cert_alert_subscriptions ` + where

	sub := &models.CertAlertSubscription{}
	var lastSent sql.NullTime

	err := r.db.QueryRow(query, args...).Scan(
		&sub.ID,
		&sub.GondolaID,
		&sub.Email,
		&sub.ThresholdDays,
		&sub.Frequency,
		&lastSent,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	sub.LastSent = timePtr(lastSent)

	return sub, nil
}

// List lists all subscriptions, optionally filtered by gondola
func (r *SubscriptionRepository) List(gondolaID *int64) ([]*models.CertAlertSubscription, error) {
	query := `
		SELECT id, gondola_id, email, threshold_days, frequency, last_sent, created_at, updated_at
		FROM cert_alert_subscriptions
	`
	var args []interface{}

	if gondolaID != nil {
		query += ` WHERE gondola_id = ?`
		args = append(args, *gondolaID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.CertAlertSubscription

	for rows.Next() {
		sub := &models.CertAlertSubscription{}
		var lastSent sql.NullTime

		err := rows.Scan(
			&sub.ID,
			&sub.GondolaID,
			&sub.Email,
			&sub.ThresholdDays,
			&sub.Frequency,
			&lastSent,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}

		sub.LastSent = timePtr(lastSent)
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// AdvanceLastSent records a confirmed send. last_sent only moves forward;
// an older timestamp never overwrites a newer one.
func (r *SubscriptionRepository) AdvanceLastSent(id int64, at time.Time) error {
	query := `
		UPDATE cert_alert_subscriptions
		SET last_sent = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (last_sent IS NULL OR last_sent < ?)
	`

	if _, err := r.db.Exec(query, at.UTC(), id, at.UTC()); err != nil {
		return fmt.Errorf("failed to advance last_sent: %w", err)
	}

	return nil
}

// Delete deletes a subscription
func (r *SubscriptionRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM cert_alert_subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return requireAffected(res)
}
