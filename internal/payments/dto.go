package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
)

// InitiatePaymentDTO carries the checkout-start input.
type InitiatePaymentDTO struct {
	OrderID uuid.UUID
	Method  string
}

// PaymentDTO is the transport shape for one payment attempt.
type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	OrderID   uuid.UUID           `json:"order_id"`
	Method    enums.PaymentMethod `json:"method"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    enums.PaymentStatus `json:"status"`
	Reference string              `json:"reference"`
	CreatedAt time.Time           `json:"created_at"`
}

// InitiateResultDTO is returned when a gateway checkout is started.
type InitiateResultDTO struct {
	Payment     PaymentDTO `json:"payment"`
	CheckoutURL string     `json:"checkout_url"`
}

// VerifyResultDTO reports the post-verification state.
type VerifyResultDTO struct {
	Payment     PaymentDTO        `json:"payment"`
	OrderStatus enums.OrderStatus `json:"order_status"`
}

// PageDTO returns a cursor-paginated payment history.
type PageDTO struct {
	Items      []PaymentDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a payment model to its DTO.
func FromModel(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Method:    p.Method,
		Amount:    p.Amount,
		Status:    p.Status,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}
