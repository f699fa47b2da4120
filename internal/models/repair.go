package models

import "time"

// RepairLog represents a reported defect or repair job on a gondola
type RepairLog struct {
	ID          int64      `json:"id"`
	GondolaID   int64      `json:"gondola_id"`
	Description string     `json:"description"`
	ReportedBy  string     `json:"reported_by,omitempty"`
	Resolved    bool       `json:"resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
