package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a product review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateReviewDTO carries the fields needed to persist a review.
type CreateReviewDTO struct {
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

// UpdateReviewDTO carries the mutable review fields; nil means unchanged.
type UpdateReviewDTO struct {
	Rating  *int
	Comment *string
}

// FromModel maps a review model to its DTO.
func FromModel(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
