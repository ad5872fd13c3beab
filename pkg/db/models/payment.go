package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/pkg/enums"
)

// Payment records one attempt against an external gateway. Reference is the
// locally minted correlation id; GatewayRef stores the provider handle
// (Stripe checkout session id, Paystack transaction reference).
type Payment struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method     enums.PaymentMethod `gorm:"column:method;not null"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Status     enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	Reference  string              `gorm:"column:reference;not null;uniqueIndex"`
	GatewayRef string              `gorm:"column:gateway_ref"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`

	Order *Order `gorm:"foreignKey:OrderID"`
}
