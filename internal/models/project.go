package models

import "time"

// Project represents a client project that gondolas are deployed to
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Client      string     `json:"client"`
	SiteAddress string     `json:"site_address,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
