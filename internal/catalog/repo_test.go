package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price NUMERIC NOT NULL,
  compare_at_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  category_id TEXT,
  images TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_flash_sale INTEGER NOT NULL DEFAULT 0,
  flash_price NUMERIC,
  flash_ends_at DATETIME,
  average_rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	reviews := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, user_id)
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(reviews).Error)
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, active bool, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      Slugify(name) + "-" + uuid.NewString()[:8],
		Price:     decimal.NewFromInt(10),
		Stock:     5,
		IsActive:  active,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListProductsSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	visible := createProduct(t, db, "list-visible", true, now)
	createProduct(t, db, "list-hidden", false, now.Add(time.Second))

	list, err := repo.ListProducts(ctx, pagination.Params{Limit: 50}, ProductFilters{Query: "list-"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, visible.ID, list.Products[0].ID)
}

func TestListProductsQueryFilter(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	createProduct(t, db, "Walnut Desk", true, now)
	lamp := createProduct(t, db, "Brass Lamp", true, now.Add(time.Second))

	list, err := repo.ListProducts(ctx, pagination.Params{Limit: 50}, ProductFilters{Query: "lamp"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, lamp.ID, list.Products[0].ID)
}

func TestListProductsCursorPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createProduct(t, db, "cursor-item", true, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.ListProducts(ctx, pagination.Params{Limit: 2}, ProductFilters{Query: "cursor-item"})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListProducts(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor}, ProductFilters{Query: "cursor-item"})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
}

func TestRefreshProductRating(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := createProduct(t, db, "rated-item", true, time.Now().UTC())

	for _, rating := range []int{5, 3} {
		review := &models.Review{
			ID:        uuid.New(),
			ProductID: product.ID,
			UserID:    uuid.New(),
			Rating:    rating,
		}
		require.NoError(t, db.Create(review).Error)
	}

	require.NoError(t, repo.RefreshProductRating(ctx, product.ID))

	reloaded, err := repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ReviewCount)
	assert.True(t, reloaded.AverageRating.Equal(decimal.NewFromInt(4)),
		"expected average 4 got %s", reloaded.AverageRating)
}

func TestFindCategoryBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := &models.Category{
		ID:   uuid.New(),
		Name: "Lighting",
		Slug: "lighting",
	}
	require.NoError(t, db.Create(category).Error)

	found, err := repo.FindCategoryBySlug(ctx, "lighting")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	_, err = repo.FindCategoryBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindProductBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	product := createProduct(t, db, "Oak Shelf", true, now)

	found, err := repo.FindProductBySlug(ctx, product.Slug)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	_, err = repo.FindProductBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListProductsFeaturedFilter(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	plain := createProduct(t, db, "feat-plain", true, now)
	featured := createProduct(t, db, "feat-starred", true, now.Add(time.Second))
	require.NoError(t, db.Model(featured).Update("is_featured", true).Error)

	list, err := repo.ListProducts(ctx, pagination.Params{Limit: 50}, ProductFilters{Query: "feat-", FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, featured.ID, list.Products[0].ID)
	assert.NotEqual(t, plain.ID, list.Products[0].ID)
}
