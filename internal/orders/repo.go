package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	"github.com/dcastano/veloshop-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
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

// CreateOrder inserts the order header.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateOrderItems inserts the purchase snapshots.
func (r *Repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads an order with its items and products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves the order to the provided status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
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

// ListByUser returns the user's orders newest first, cursor-paginated.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	return r.list(ctx, cursor, limit, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// ListAll returns every order newest first, cursor-paginated.
func (r *Repository) ListAll(ctx context.Context, cursor string, limit int) (PageDTO, error) {
	return r.list(ctx, cursor, limit, nil)
}

func (r *Repository) list(ctx context.Context, cursor string, limit int, scope func(*gorm.DB) *gorm.DB) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product")
	if scope != nil {
		query = scope(query)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Order
	if err := query.
		Order("created_at DESC").Order("id DESC").
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

	page.Items = make([]OrderDTO, 0, len(resultRows))
	for i := range resultRows {
		page.Items = append(page.Items, FromModel(&resultRows[i]))
	}
	return page, nil
}
