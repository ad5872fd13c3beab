package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/catalog"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  CONSTRAINT wishlist_items_user_product_key UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newWishlistService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(db),
		ProductRepo:  catalog.NewProductRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, active bool) *models.Product {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: "cat-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "product-" + uuid.NewString(),
		Price:      decimal.RequireFromString("9.99"),
		Stock:      3,
		IsActive:   active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddItemIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	userID := uuid.New()
	product := seedProduct(t, db, true)

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID))
	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, product.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	product := seedProduct(t, db, false)

	err := svc.AddItem(context.Background(), uuid.New(), product.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveItemAbsentEntry(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestWishlistRoundTrip(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	userID := uuid.New()
	first := seedProduct(t, db, true)
	second := seedProduct(t, db, true)

	require.NoError(t, svc.AddItem(context.Background(), userID, first.ID))
	require.NoError(t, svc.AddItem(context.Background(), userID, second.ID))

	page, err := svc.GetWishlist(context.Background(), userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	require.NoError(t, svc.RemoveItem(context.Background(), userID, first.ID))

	page, err = svc.GetWishlist(context.Background(), userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.ID, page.Items[0].Product.ID)
}
