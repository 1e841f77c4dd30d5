package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/api/responses"
	"github.com/lumamart/storefront-backend/api/validators"
	"github.com/lumamart/storefront-backend/internal/coupons"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/logger"
)

type adminCouponRequest struct {
	Code              string     `json:"code" validate:"required"`
	Description       *string    `json:"description"`
	DiscountType      string     `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue     string     `json:"discount_value" validate:"required"`
	MinOrderAmount    *string    `json:"min_order_amount"`
	MaxDiscountAmount *string    `json:"max_discount_amount"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,min=1"`
	IsActive          *bool      `json:"is_active"`
	StartsAt          *time.Time `json:"starts_at"`
	ExpiresAt         *time.Time `json:"expires_at"`
}

func AdminCouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(payload.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}
		value, err := parseMoney(payload.DiscountValue, "discount_value")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.CreateInput{
			Code:          payload.Code,
			Description:   payload.Description,
			DiscountType:  discountType,
			DiscountValue: value,
			UsageLimit:    payload.UsageLimit,
			IsActive:      payload.IsActive,
			StartsAt:      payload.StartsAt,
			ExpiresAt:     payload.ExpiresAt,
		}
		if payload.MinOrderAmount != nil {
			minimum, err := parseMoney(*payload.MinOrderAmount, "min_order_amount")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.MinOrderAmount = minimum
		}
		if payload.MaxDiscountAmount != nil {
			maximum, err := parseMoney(*payload.MaxDiscountAmount, "max_discount_amount")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.MaxDiscountAmount = &maximum
		}

		coupon, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func AdminCouponsList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type adminCouponPatch struct {
	Description       *string    `json:"description"`
	DiscountValue     *string    `json:"discount_value"`
	MinOrderAmount    *string    `json:"min_order_amount"`
	MaxDiscountAmount *string    `json:"max_discount_amount"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,min=1"`
	IsActive          *bool      `json:"is_active"`
	StartsAt          *time.Time `json:"starts_at"`
	ExpiresAt         *time.Time `json:"expires_at"`
}

func AdminCouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminCouponPatch
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.UpdateInput{
			Description: payload.Description,
			UsageLimit:  payload.UsageLimit,
			IsActive:    payload.IsActive,
			StartsAt:    payload.StartsAt,
			ExpiresAt:   payload.ExpiresAt,
		}
		for _, field := range []struct {
			raw  *string
			name string
			dest **decimal.Decimal
		}{
			{payload.DiscountValue, "discount_value", &input.DiscountValue},
			{payload.MinOrderAmount, "min_order_amount", &input.MinOrderAmount},
			{payload.MaxDiscountAmount, "max_discount_amount", &input.MaxDiscountAmount},
		} {
			if field.raw == nil {
				continue
			}
			parsed, err := parseMoney(*field.raw, field.name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			*field.dest = &parsed
		}

		coupon, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func AdminCouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
