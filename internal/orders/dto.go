package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
)

// PlaceOrderDTO carries the checkout input. The line items come from the
// caller's persisted cart, never from the request body.
type PlaceOrderDTO struct {
	ShippingAddress string
	ShippingMethod  string
}

// ItemDTO is one purchased line with its price snapshot.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          enums.OrderStatus `json:"status"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []ItemDTO         `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// PageDTO returns a cursor-paginated order listing.
type PageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps an order model (items preloaded) to its DTO.
func FromModel(o *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		Items:           make([]ItemDTO, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i := range o.Items {
		item := &o.Items[i]
		line := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
