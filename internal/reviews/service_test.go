package reviews

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

func setupReviewsTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT reviews_user_product_key UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReviewsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ReviewRepo:  NewRepository(db),
		ProductRepo: catalog.NewProductRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: "cat-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "product-" + uuid.NewString(),
		Price:      decimal.RequireFromString("19.99"),
		Stock:      5,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCreateReviewPersists(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	userID := uuid.New()

	review, err := svc.Create(context.Background(), userID, CreateReviewDTO{
		ProductID: product.ID,
		Rating:    4,
		Comment:   "solid",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, review.UserID)
	assert.Equal(t, 4, review.Rating)

	loaded, err := svc.Get(context.Background(), review.ID)
	require.NoError(t, err)
	assert.Equal(t, "solid", loaded.Comment)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateReviewDTO{
			ProductID: product.ID,
			Rating:    rating,
		})
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestCreateReviewRejectsUnknownProduct(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)

	_, err := svc.Create(context.Background(), uuid.New(), CreateReviewDTO{
		ProductID: uuid.New(),
		Rating:    5,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateReviewDuplicateConflicts(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, CreateReviewDTO{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, CreateReviewDTO{ProductID: product.ID, Rating: 3})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestUpdateForeignReviewReadsMissing(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateReviewDTO{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)

	rating := 1
	_, err = svc.Update(context.Background(), created.ID, uuid.New(), UpdateReviewDTO{Rating: &rating})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	updated, err := svc.Update(context.Background(), created.ID, author, UpdateReviewDTO{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)
}

func TestDeleteForeignReviewReadsMissing(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateReviewDTO{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	require.NoError(t, svc.Delete(context.Background(), created.ID, author))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListFiltersByProduct(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	reviewed := seedProduct(t, db)
	other := seedProduct(t, db)

	_, err := svc.Create(context.Background(), uuid.New(), CreateReviewDTO{ProductID: reviewed.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), uuid.New(), CreateReviewDTO{ProductID: other.ID, Rating: 2})
	require.NoError(t, err)

	filtered, err := svc.List(context.Background(), &reviewed.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, reviewed.ID, filtered[0].ProductID)
}
