package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreSettings holds per-vendor storefront configuration.
type StoreSettings struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	StoreName string    `gorm:"column:store_name;not null;default:'My Store'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the singular-noun table used by the schema.
func (StoreSettings) TableName() string { return "store_settings" }
