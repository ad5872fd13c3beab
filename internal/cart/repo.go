package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateForUser inserts the user's cart row.
func (r *Repository) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// GetOrCreate loads the user's cart with items and products, creating the
// cart row when the user has none yet.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.findByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := r.CreateForUser(ctx, userID); err != nil {
		return nil, err
	}
	return r.findByUser(ctx, userID)
}

func (r *Repository) findByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem upserts a cart line, incrementing the quantity on re-add.
func (r *Repository) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	var existing models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&existing).Error
	switch {
	case err == nil:
		return r.db.WithContext(ctx).
			Model(&models.CartItem{}).
			Where("id = ?", existing.ID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			ID:        uuid.New(),
			CartID:    cartID,
			ProductID: productID,
			Quantity:  qty,
		}
		return r.db.WithContext(ctx).Create(item).Error
	default:
		return err
	}
}

// RemoveItem deletes the cart line and reports whether a row existed.
func (r *Repository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Clear drops every line from the cart.
func (r *Repository) Clear(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
