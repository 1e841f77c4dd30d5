package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/api/responses"
	"github.com/lumamart/storefront-backend/api/validators"
	"github.com/lumamart/storefront-backend/internal/catalog"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/logger"
)

type adminProductRequest struct {
	Name           string     `json:"name" validate:"required"`
	Slug           string     `json:"slug"`
	Description    *string    `json:"description"`
	Price          string     `json:"price" validate:"required"`
	CompareAtPrice *string    `json:"compare_at_price"`
	Stock          int        `json:"stock" validate:"min=0"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Images         []string   `json:"images"`
	IsFeatured     bool       `json:"is_featured"`
	IsFlashSale    bool       `json:"is_flash_sale"`
	FlashPrice     *string    `json:"flash_price"`
	FlashEndsAt    *time.Time `json:"flash_ends_at"`
}

func parseMoney(value, field string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return parsed, nil
}

// AdminProductsList includes inactive rows so the back office sees the
// full catalog.
func AdminProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ProductFilters{
			CategorySlug:    r.URL.Query().Get("category"),
			Query:           r.URL.Query().Get("q"),
			IncludeInactive: true,
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parseMoney(payload.Price, "price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
			Price:       price,
			Stock:       payload.Stock,
			CategoryID:  payload.CategoryID,
			Images:      payload.Images,
			IsFeatured:  payload.IsFeatured,
			IsFlashSale: payload.IsFlashSale,
			FlashEndsAt: payload.FlashEndsAt,
		}
		if payload.CompareAtPrice != nil {
			compare, err := parseMoney(*payload.CompareAtPrice, "compare_at_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CompareAtPrice = &compare
		}
		if payload.FlashPrice != nil {
			flash, err := parseMoney(*payload.FlashPrice, "flash_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.FlashPrice = &flash
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type adminProductPatch struct {
	Name           *string    `json:"name"`
	Slug           *string    `json:"slug"`
	Description    *string    `json:"description"`
	Price          *string    `json:"price"`
	CompareAtPrice *string    `json:"compare_at_price"`
	Stock          *int       `json:"stock" validate:"omitempty,min=0"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Images         []string   `json:"images"`
	IsActive       *bool      `json:"is_active"`
	IsFeatured     *bool      `json:"is_featured"`
	IsFlashSale    *bool      `json:"is_flash_sale"`
	FlashPrice     *string    `json:"flash_price"`
	FlashEndsAt    *time.Time `json:"flash_ends_at"`
}

func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminProductPatch
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
			Stock:       payload.Stock,
			CategoryID:  payload.CategoryID,
			Images:      payload.Images,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
			IsFlashSale: payload.IsFlashSale,
			FlashEndsAt: payload.FlashEndsAt,
		}
		if payload.CompareAtPrice != nil {
			compare, err := parseMoney(*payload.CompareAtPrice, "compare_at_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CompareAtPrice = &compare
		}
		if payload.Price != nil {
			price, err := parseMoney(*payload.Price, "price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Price = &price
		}
		if payload.FlashPrice != nil {
			flash, err := parseMoney(*payload.FlashPrice, "flash_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.FlashPrice = &flash
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductDelete deactivates rather than deletes; order history keeps
// pointing at the row.
func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
