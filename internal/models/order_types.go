package models

import (
	"time"
)

// Order is the model for the 'orders' table.
// Timestamps are nil when the order never reached that stage.
type Order struct {
	OrderID     int64      `json:"order_id" db:"order_id"`
	UserID      *int64     `json:"user_id,omitempty" db:"user_id"`
	Status      *string    `json:"status,omitempty" db:"status"` // pending, processing, shipped, complete, cancelled, returned
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" db:"returned_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty" db:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	NumOfItem   *int64     `json:"num_of_item,omitempty" db:"num_of_item"`
}
