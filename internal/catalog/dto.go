package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/pkg/db/models"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategorySlug    string
	Query           string
	FlashOnly       bool
	FeaturedOnly    bool
	IncludeInactive bool
}

// ProductList wraps a product page plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CreateProductInput captures the fields an admin supplies for a new product.
type CreateProductInput struct {
	Name           string
	Slug           string
	Description    *string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	CategoryID     *uuid.UUID
	Images         []string
	IsFeatured     bool
	IsFlashSale    bool
	FlashPrice     *decimal.Decimal
	FlashEndsAt    *time.Time
}

// UpdateProductInput captures partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string
	Slug           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          *int
	CategoryID     *uuid.UUID
	Images         []string
	IsActive       *bool
	IsFeatured     *bool
	IsFlashSale    *bool
	FlashPrice     *decimal.Decimal
	FlashEndsAt    *time.Time
}

// HomePayload is the storefront landing response: category rail, open
// flash sales and the latest arrivals.
type HomePayload struct {
	Categories  []models.Category `json:"categories"`
	FlashSales  []models.Product  `json:"flash_sales"`
	NewArrivals []models.Product  `json:"new_arrivals"`
}

// ReviewInput captures a shopper's review submission.
type ReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   *string
}
