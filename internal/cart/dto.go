package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/internal/catalog"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// LineDTO is one cart row with its product summary and extended total.
type LineDTO struct {
	ID        uuid.UUID              `json:"id"`
	Product   catalog.ProductSummary `json:"product"`
	Quantity  int                    `json:"quantity"`
	LineTotal decimal.Decimal        `json:"line_total"`
}

// CartDTO is the full cart view returned to clients.
type CartDTO struct {
	ID    uuid.UUID       `json:"id"`
	Items []LineDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// FromModel maps a loaded cart (items + products preloaded) to its DTO.
func FromModel(cart *models.Cart) CartDTO {
	dto := CartDTO{
		ID:    cart.ID,
		Items: make([]LineDTO, 0, len(cart.Items)),
		Total: decimal.Zero,
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		line := LineDTO{
			ID:       item.ID,
			Quantity: item.Quantity,
		}
		if item.Product != nil {
			line.Product = catalog.SummaryFromModel(item.Product)
			line.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		dto.Total = dto.Total.Add(line.LineTotal)
		dto.Items = append(dto.Items, line)
	}
	return dto
}
