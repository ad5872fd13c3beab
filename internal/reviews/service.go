package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/catalog"
	"github.com/dcastano/veloshop-backend/pkg/db"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

// Service exposes business rules for product reviews.
type Service interface {
	List(ctx context.Context, productID *uuid.UUID) ([]ReviewDTO, error)
	Get(ctx context.Context, id uuid.UUID) (ReviewDTO, error)
	Create(ctx context.Context, userID uuid.UUID, dto CreateReviewDTO) (ReviewDTO, error)
	Update(ctx context.Context, id, userID uuid.UUID, dto UpdateReviewDTO) (ReviewDTO, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo  *Repository
	ProductRepo *catalog.ProductRepository
}

type service struct {
	reviews  *Repository
	products *catalog.ProductRepository
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{reviews: params.ReviewRepo, products: params.ProductRepo}, nil
}

// List returns reviews, optionally filtered to one product.
func (s *service) List(ctx context.Context, productID *uuid.UUID) ([]ReviewDTO, error) {
	records, err := s.reviews.List(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i]))
	}
	return dtos, nil
}

// Get loads one review by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (ReviewDTO, error) {
	if id == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return FromModel(review), nil
}

// Create persists a review authored by the caller. A second review for the
// same product conflicts.
func (s *service) Create(ctx context.Context, userID uuid.UUID, dto CreateReviewDTO) (ReviewDTO, error) {
	if userID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.products.FindByID(ctx, dto.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review, err := s.reviews.Create(ctx, userID, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "reviews_user_product_key") {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already reviewed")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return FromModel(review), nil
}

// Update edits the caller's own review; other users' reviews read as missing.
func (s *service) Update(ctx context.Context, id, userID uuid.UUID, dto UpdateReviewDTO) (ReviewDTO, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "review and user ids are required")
	}
	if dto.Rating != nil && (*dto.Rating < 1 || *dto.Rating > 5) {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	review, err := s.reviews.UpdateOwned(ctx, id, userID, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return FromModel(review), nil
}

// Delete removes the caller's own review.
func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if id == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review and user ids are required")
	}
	deleted, err := s.reviews.DeleteOwned(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return nil
}
