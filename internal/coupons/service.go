package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db"
	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// Service exposes coupon validation plus the admin management surface.
type Service interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*Quote, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	List(ctx context.Context, params pagination.Params) (*CouponList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the coupon service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo}, nil
}

// Validate checks a code against a subtotal and prices the discount. The
// failure checks run in a fixed order so a coupon that is both expired and
// below-minimum always reports expiry first.
func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*Quote, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid coupon code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid coupon code")
	}

	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is not active yet")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon has expired")
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
	}
	if subtotal.LessThan(coupon.MinOrderAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("minimum order amount of %s required", coupon.MinOrderAmount.StringFixed(2)))
	}

	return &Quote{
		Coupon:         coupon,
		DiscountAmount: Discount(coupon, subtotal),
	}, nil
}

// Discount computes the amount a coupon takes off a subtotal. Percentage
// discounts are capped by max_discount_amount; fixed amounts are applied
// as-is.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		amount := subtotal.Mul(coupon.DiscountValue).Div(oneHundred).Round(2)
		if coupon.MaxDiscountAmount.Valid && amount.GreaterThan(coupon.MaxDiscountAmount.Decimal) {
			return coupon.MaxDiscountAmount.Decimal
		}
		return amount
	default:
		return coupon.DiscountValue
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if !input.DiscountValue.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && input.ExpiresAt.Before(*input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be after start")
	}

	coupon := &models.Coupon{
		Code:           code,
		Description:    input.Description,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		UsageLimit:     input.UsageLimit,
		IsActive:       true,
		StartsAt:       input.StartsAt,
		ExpiresAt:      input.ExpiresAt,
	}
	if input.MaxDiscountAmount != nil {
		coupon.MaxDiscountAmount = decimal.NewNullDecimal(*input.MaxDiscountAmount)
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*CouponList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}

	updates := map[string]any{}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DiscountValue != nil {
		if !input.DiscountValue.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
		}
		updates["discount_value"] = *input.DiscountValue
	}
	if input.MinOrderAmount != nil {
		updates["min_order_amount"] = *input.MinOrderAmount
	}
	if input.MaxDiscountAmount != nil {
		updates["max_discount_amount"] = *input.MaxDiscountAmount
	}
	if input.UsageLimit != nil {
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.StartsAt != nil {
		updates["starts_at"] = *input.StartsAt
	}
	if input.ExpiresAt != nil {
		updates["expires_at"] = *input.ExpiresAt
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload coupon")
	}
	return coupon, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}
