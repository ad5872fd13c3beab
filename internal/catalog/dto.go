package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// ProductSummary is the transport shape for catalog listings and embedded
// product references (cart lines, wishlist rows).
type ProductSummary struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     *string         `json:"image_url,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CategoryDTO is the transport shape for categories.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductDTO carries the fields needed to persist a new product.
type CreateProductDTO struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    *string
}

// UpdateProductDTO carries the mutable product fields; nil means unchanged.
type UpdateProductDTO struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	IsActive    *bool
}

// ListQuery captures the supported catalog filters.
type ListQuery struct {
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Ordering   string
	Page       int
	Limit      int
}

// ProductPage is an offset-paginated product listing.
type ProductPage struct {
	Items []ProductSummary `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}

// SummaryFromModel maps a product model (with optional Category preload).
func SummaryFromModel(p *models.Product) ProductSummary {
	summary := ProductSummary{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		summary.CategoryName = p.Category.Name
	}
	return summary
}

// CategoryFromModel maps a category model to its DTO.
func CategoryFromModel(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
