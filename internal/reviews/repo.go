package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review and returns the persisted model.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, dto CreateReviewDTO) (*models.Review, error) {
	review := &models.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: dto.ProductID,
		Rating:    dto.Rating,
		Comment:   dto.Comment,
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID loads a single review.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns reviews, optionally scoped to one product, newest first.
func (r *Repository) List(ctx context.Context, productID *uuid.UUID) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	var records []models.Review
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateOwned applies changes only when the review belongs to the caller.
func (r *Repository) UpdateOwned(ctx context.Context, id, userID uuid.UUID, dto UpdateReviewDTO) (*models.Review, error) {
	updates := map[string]any{}
	if dto.Rating != nil {
		updates["rating"] = *dto.Rating
	}
	if dto.Comment != nil {
		updates["comment"] = *dto.Comment
	}
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Review{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteOwned removes the review only when it belongs to the caller.
func (r *Repository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Review{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
