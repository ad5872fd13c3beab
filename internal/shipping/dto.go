package shipping

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// ShippingDTO is the transport shape for an order's fulfillment record.
type ShippingDTO struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	Method         string    `json:"method"`
	TrackingNumber *string   `json:"tracking_number,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateShippingDTO carries the mutable fields; nil means unchanged.
type UpdateShippingDTO struct {
	Method         *string
	TrackingNumber *string
	Status         *string
}

// FromModel maps a shipping model to its DTO.
func FromModel(s *models.Shipping) ShippingDTO {
	return ShippingDTO{
		ID:             s.ID,
		OrderID:        s.OrderID,
		Method:         s.Method,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
