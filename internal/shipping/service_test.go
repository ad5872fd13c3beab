package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

func setupShippingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shipping_records (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  method TEXT NOT NULL,
  tracking_number TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type orderFinderStub struct {
	db *gorm.DB
}

func (s orderFinderStub) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func newShippingService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ShippingRepo: NewRepository(db),
		OrderRepo:    orderFinderStub{db: db},
	})
	require.NoError(t, err)
	return svc
}

func seedOrderWithShipping(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     decimal.RequireFromString("25.00"),
		Status:          enums.OrderStatusPending,
		ShippingAddress: "12 Main St",
	}
	require.NoError(t, db.Create(order).Error)
	_, err := NewRepository(db).Create(context.Background(), order.ID, "Standard Shipping")
	require.NoError(t, err)
	return order
}

func TestGetByOrderOwnerAndVendor(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newShippingService(t, db)
	owner := uuid.New()
	order := seedOrderWithShipping(t, db, owner)

	record, err := svc.GetByOrder(context.Background(), order.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, record.OrderID)
	assert.Equal(t, "pending", record.Status)

	_, err = svc.GetByOrder(context.Background(), order.ID, uuid.New(), false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	asVendor, err := svc.GetByOrder(context.Background(), order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, asVendor.OrderID)
}

func TestGetByOrderUnknownOrder(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newShippingService(t, db)

	_, err := svc.GetByOrder(context.Background(), uuid.New(), uuid.New(), true)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newShippingService(t, db)
	order := seedOrderWithShipping(t, db, uuid.New())

	tracking := "TRACK-42"
	status := "shipped"
	updated, err := svc.Update(context.Background(), order.ID, UpdateShippingDTO{
		TrackingNumber: &tracking,
		Status:         &status,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRACK-42", *updated.TrackingNumber)
	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, "Standard Shipping", updated.Method, "untouched fields must survive")
}

func TestUpdateUnknownOrder(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newShippingService(t, db)

	status := "shipped"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateShippingDTO{Status: &status})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
