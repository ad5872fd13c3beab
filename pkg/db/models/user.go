package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Vendor and staff flags gate
// catalog and fulfillment mutations.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Username     string     `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name"`
	LastName     string     `gorm:"column:last_name"`
	IsVendor     bool       `gorm:"column:is_vendor;not null;default:false"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false"`
	ResetToken   *string    `gorm:"column:reset_token"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
