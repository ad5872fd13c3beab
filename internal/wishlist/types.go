package wishlist

import (
	"time"

	"github.com/dcastano/veloshop-backend/internal/catalog"
)

// ItemDTO wraps the product summary included in a wishlist row.
type ItemDTO struct {
	Product   catalog.ProductSummary `json:"product"`
	CreatedAt time.Time              `json:"created_at"`
}

// PageDTO returns a cursor-paginated wishlist view.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
