package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/api/responses"
	"github.com/lumamart/storefront-backend/api/validators"
	"github.com/lumamart/storefront-backend/internal/checkout"
	"github.com/lumamart/storefront-backend/internal/coupons"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	AddressID      uuid.UUID `json:"address_id" validate:"required"`
	DeliveryMethod string    `json:"delivery_method" validate:"required,oneof=standard express"`
	CouponCode     *string   `json:"coupon_code"`
}

// CheckoutPlaceOrder turns the caller's cart into an order. The route is
// mounted behind the idempotency middleware so a retried request replays
// the stored response instead of placing twice.
func CheckoutPlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID, checkout.PlaceOrderInput{
			AddressID:      payload.AddressID,
			DeliveryMethod: method,
			CouponCode:     payload.CouponCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type couponPreviewRequest struct {
	Code     string `json:"code" validate:"required"`
	Subtotal string `json:"subtotal" validate:"required"`
}

// CouponPreview prices a coupon against a subtotal before checkout so the
// storefront can show the discount in the cart. Nothing is consumed here.
func CouponPreview(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload couponPreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subtotal, err := decimal.NewFromString(payload.Subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subtotal"))
			return
		}

		quote, err := svc.Validate(r.Context(), payload.Code, subtotal, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
