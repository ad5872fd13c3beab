package shipping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
)

// Repository encapsulates shipping persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shipping repo bound to the provided GORM DB.
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

// Create inserts the fulfillment record for an order.
func (r *Repository) Create(ctx context.Context, orderID uuid.UUID, method string) (*models.Shipping, error) {
	record := &models.Shipping{
		ID:      uuid.New(),
		OrderID: orderID,
		Method:  method,
		Status:  "pending",
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByOrder loads the fulfillment record for an order.
func (r *Repository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Shipping, error) {
	var record models.Shipping
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Update applies the provided changes to the order's fulfillment record.
func (r *Repository) Update(ctx context.Context, orderID uuid.UUID, dto UpdateShippingDTO) (*models.Shipping, error) {
	updates := map[string]any{}
	if dto.Method != nil {
		updates["method"] = *dto.Method
	}
	if dto.TrackingNumber != nil {
		updates["tracking_number"] = *dto.TrackingNumber
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Shipping{}).
			Where("order_id = ?", orderID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByOrder(ctx, orderID)
}
