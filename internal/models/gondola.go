package models

import "time"

// Gondola statuses
const (
	GondolaStatusDeployed       = "deployed"
	GondolaStatusIdle           = "idle"
	GondolaStatusMaintenance    = "maintenance"
	GondolaStatusDecommissioned = "decommissioned"
)

// Gondola represents a suspended access platform unit
type Gondola struct {
	ID           int64      `json:"id"`
	SerialNumber string     `json:"serial_number"`
	ProjectID    *int64     `json:"project_id,omitempty"`
	Location     string     `json:"location,omitempty"`
	Status       string     `json:"status"`
	InstalledAt  *time.Time `json:"installed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
