package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountActiveProducts(ctx context.Context) (int64, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	CreateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	RefreshProductRating(ctx context.Context, productID uuid.UUID) error
}
