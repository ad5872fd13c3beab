package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	"github.com/dcastano/veloshop-backend/pkg/pagination"
)

// Repository encapsulates payment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
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

// Create inserts a payment attempt.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByReference loads a payment with its order by the local reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("reference = ?", reference).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SetGatewayRef records the provider handle returned at initiation.
func (r *Repository) SetGatewayRef(ctx context.Context, id uuid.UUID, gatewayRef string) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumn("gateway_ref", gatewayRef).Error
}

// UpdateStatus moves the payment to the provided status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser returns the caller's payments newest first, cursor-paginated.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(payments.created_at < ?) OR (payments.created_at = ? AND payments.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Payment
	if err := query.
		Order("payments.created_at DESC").Order("payments.id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error; err != nil {
		return PageDTO{}, err
	}

	page := PageDTO{}
	resultRows := records
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	page.Items = make([]PaymentDTO, 0, len(resultRows))
	for i := range resultRows {
		page.Items = append(page.Items, FromModel(&resultRows[i]))
	}
	return page, nil
}
