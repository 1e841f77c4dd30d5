package coupons

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
)

// CouponList wraps a coupon page plus the next page cursor.
type CouponList struct {
	Coupons    []models.Coupon `json:"coupons"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Quote is the result of validating a coupon against a subtotal. It carries
// no side effects; usage is only consumed when an order commits.
type Quote struct {
	Coupon         *models.Coupon  `json:"coupon"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CreateInput captures the fields an admin supplies for a new coupon.
type CreateInput struct {
	Code              string
	Description       *string
	DiscountType      enums.DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	IsActive          *bool
	StartsAt          *time.Time
	ExpiresAt         *time.Time
}

// UpdateInput captures partial updates; nil fields are left untouched.
type UpdateInput struct {
	Description       *string
	DiscountValue     *decimal.Decimal
	MinOrderAmount    *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	IsActive          *bool
	StartsAt          *time.Time
	ExpiresAt         *time.Time
}
