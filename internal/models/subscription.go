package models

import "time"

// Alert frequencies
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// CertAlertSubscription represents a recipient subscribed to certificate
// expiry alerts for one gondola. Keyed uniquely by (gondola_id, email).
// LastSent only advances forward and gates duplicate sends.
type CertAlertSubscription struct {
	ID            int64      `json:"id"`
	GondolaID     int64      `json:"gondola_id"`
	Email         string     `json:"email"`
	ThresholdDays int        `json:"threshold_days"`
	Frequency     string     `json:"frequency"`
	LastSent      *time.Time `json:"last_sent,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
