package models

import (
	"time"

	"github.com/google/uuid"
)

// Shipping tracks fulfillment for exactly one order. Status is free text by
// design; no transition ordering is enforced.
type Shipping struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Method         string    `gorm:"column:method;not null"`
	TrackingNumber *string   `gorm:"column:tracking_number"`
	Status         string    `gorm:"column:status;not null;default:'pending'"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName avoids gorm pluralizing to "shippings".
func (Shipping) TableName() string { return "shipping_records" }
