package models

import "time"

// Inspection results
const (
	InspectionResultPass = "pass"
	InspectionResultFail = "fail"
)

// Inspection represents an inspection carried out on a gondola
type Inspection struct {
	ID          int64     `json:"id"`
	GondolaID   int64     `json:"gondola_id"`
	Inspector   string    `json:"inspector"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes,omitempty"`
	InspectedAt time.Time `json:"inspected_at"`
	CreatedAt   time.Time `json:"created_at"`
}
