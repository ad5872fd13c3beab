package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/users"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  is_vendor INTEGER NOT NULL DEFAULT 0,
  is_staff INTEGER NOT NULL DEFAULT 0,
  reset_token TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newDashboardService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:       db,
		UserRepo: users.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, total string, status enums.OrderStatus) {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		TotalAmount:     decimal.RequireFromString(total),
		Status:          status,
		ShippingAddress: "12 Main St",
	}
	require.NoError(t, db.Create(order).Error)
}

func seedUser(t *testing.T, db *gorm.DB, isVendor, isStaff bool) {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		Username:     "u-" + uuid.NewString(),
		PasswordHash: "hash",
		IsVendor:     isVendor,
		IsStaff:      isStaff,
	}
	require.NoError(t, db.Create(user).Error)
}

func TestSummaryEmptyStore(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newDashboardService(t, db)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.PendingOrders)
	assert.Zero(t, summary.CustomerCount)
	assert.True(t, summary.TotalRevenue.IsZero())
}

func TestSummaryAggregates(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newDashboardService(t, db)

	seedOrder(t, db, "25.00", enums.OrderStatusPending)
	seedOrder(t, db, "40.00", enums.OrderStatusConfirmed)
	seedOrder(t, db, "10.00", enums.OrderStatusPending)

	seedUser(t, db, false, false)
	seedUser(t, db, false, false)
	seedUser(t, db, true, false)
	seedUser(t, db, false, true)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalOrders)
	assert.Equal(t, int64(2), summary.PendingOrders)
	assert.Equal(t, int64(2), summary.CustomerCount, "vendor and staff accounts are not customers")
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("75.00")),
		"expected revenue 75.00, got %s", summary.TotalRevenue)
}
