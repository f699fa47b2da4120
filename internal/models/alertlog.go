package models

import "time"

// AlertLog represents one attempted certificate-expiry alert send
type AlertLog struct {
	ID             int64     `json:"id"`
	SubscriptionID *int64    `json:"subscription_id,omitempty"`
	GondolaID      int64     `json:"gondola_id"`
	Email          string    `json:"email"`
	DocumentCount  int       `json:"document_count"`
	Success        bool      `json:"success"`
	ErrorMsg       string    `json:"error_msg,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}
