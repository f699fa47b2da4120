package models

import "time"

// Document represents a certificate or other file attached to a gondola.
// Expiry is nullable; a document without an expiry date never triggers alerts.
type Document struct {
	ID          int64      `json:"id"`
	GondolaID   int64      `json:"gondola_id"`
	Title       string     `json:"title"`
	Category    string     `json:"category,omitempty"`
	Expiry      *time.Time `json:"expiry,omitempty"`
	FileName    string     `json:"file_name,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	FileData    []byte     `json:"-"` // Served via the download endpoint only
	UploadedAt  time.Time  `json:"uploaded_at"`
}
