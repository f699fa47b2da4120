package models

import "time"

// ShiftRecord represents one relocation of a gondola between sites
type ShiftRecord struct {
	ID           int64     `json:"id"`
	GondolaID    int64     `json:"gondola_id"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	MovedBy      string    `json:"moved_by,omitempty"`
	Note         string    `json:"note,omitempty"`
	MovedAt      time.Time `json:"moved_at"`
}
