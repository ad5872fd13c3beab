package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// ProductRepository encapsulates product persistence.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a product repo bound to the provided GORM DB.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction handle.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	if tx == nil {
		return r
	}
	return &ProductRepository{db: tx}
}

// Create inserts a product and returns the persisted model.
func (r *ProductRepository) Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  dto.CategoryID,
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Stock:       dto.Stock,
		ImageURL:    dto.ImageURL,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product with its category regardless of active state.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID loads a product only when it is purchasable.
func (r *ProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies the provided changes and returns the fresh model.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	updates := map[string]any{}
	if dto.CategoryID != nil {
		updates["category_id"] = *dto.CategoryID
	}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Price != nil {
		updates["price"] = *dto.Price
	}
	if dto.Stock != nil {
		updates["stock"] = *dto.Stock
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the product row.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearImage drops the stored image reference.
func (r *ProductRepository) ClearImage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("image_url", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock performs a guarded decrement and reports whether any row
// matched. Zero rows means the product is missing, inactive, or understocked.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", id, true, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns an offset-paginated, filtered product listing of active products.
func (r *ProductRepository) List(ctx context.Context, query ListQuery) (ProductPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if query.CategoryID != nil {
		base = base.Where("category_id = ?", *query.CategoryID)
	}
	if query.MinPrice != nil {
		base = base.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		base = base.Where("price <= ?", *query.MaxPrice)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	var records []models.Product
	if err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order(orderingClause(query.Ordering)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error; err != nil {
		return ProductPage{}, err
	}

	items := make([]ProductSummary, 0, len(records))
	for i := range records {
		items = append(items, SummaryFromModel(&records[i]))
	}

	return ProductPage{Items: items, Page: page, Limit: limit, Total: total}, nil
}

func orderingClause(ordering string) string {
	switch strings.TrimSpace(ordering) {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "name":
		return "name ASC"
	case "created_at":
		return "created_at ASC"
	default:
		return "created_at DESC"
	}
}
