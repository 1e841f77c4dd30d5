package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/api/middleware"
	cartsvc "github.com/lumamart/storefront-backend/internal/cart"
)

type stubCartService struct {
	cartsvc.Service

	added    bool
	removed  bool
	lastQty  int
	lastItem uuid.UUID
}

func (s *stubCartService) Fetch(_ context.Context, _ string) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{Items: []cartsvc.Line{
		{ProductID: uuid.New(), Name: "Oak Shelf", UnitPrice: decimal.NewFromInt(60), Quantity: 2},
	}}, nil
}

func (s *stubCartService) AddItem(_ context.Context, _ string, productID uuid.UUID, quantity int) (*cartsvc.Cart, error) {
	s.added = true
	s.lastItem = productID
	s.lastQty = quantity
	return &cartsvc.Cart{Items: []cartsvc.Line{}}, nil
}

func (s *stubCartService) RemoveItem(_ context.Context, _ string, productID uuid.UUID) (*cartsvc.Cart, error) {
	s.removed = true
	s.lastItem = productID
	return &cartsvc.Cart{Items: []cartsvc.Line{}}, nil
}

func TestCartGetComputesSubtotal(t *testing.T) {
	logg := testLogger()
	ctx := middleware.WithUserID(context.Background(), uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	CartGet(&stubCartService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"subtotal":"120.00"`) {
		t.Fatalf("expected subtotal 120.00 in body: %s", rec.Body.String())
	}
}

func TestCartAddItem(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","quantity":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		body := `{"product_id":"` + productID.String() + `","quantity":0}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		stub := &stubCartService{}
		body := `{"product_id":"` + productID.String() + `","quantity":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.added || stub.lastItem != productID || stub.lastQty != 3 {
			t.Fatalf("expected AddItem(%s, 3) to be invoked", productID)
		}
	})
}

func TestCartRemoveItemInvalidID(t *testing.T) {
	logg := testLogger()
	ctx := middleware.WithUserID(context.Background(), uuid.New().String())

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", "not-a-uuid")
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/not-a-uuid", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	CartRemoveItem(&stubCartService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid product id, got %d", rec.Code)
	}
}
