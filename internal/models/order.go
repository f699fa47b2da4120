package models

import "time"

// Delivery order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// DeliveryOrder represents a delivery order for gondola equipment
type DeliveryOrder struct {
	ID            int64      `json:"id"`
	Reference     string     `json:"reference"`
	ProjectID     int64      `json:"project_id"`
	GondolaID     *int64     `json:"gondola_id,omitempty"`
	Status        string     `json:"status"`
	Items         string     `json:"items,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
