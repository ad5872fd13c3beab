package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// CategoryRepository encapsulates category persistence.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository constructs a category repo bound to the provided GORM DB.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category and returns the persisted model.
func (r *CategoryRepository) Create(ctx context.Context, name, description string) (*models.Category, error) {
	category := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a single category.
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
