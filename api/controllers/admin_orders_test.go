package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/lumamart/storefront-backend/internal/orders"
	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
)

type stubOrderService struct {
	ordersvc.Service

	setStatus enums.OrderStatus
	advanced  enums.OrderStatus
}

func (s *stubOrderService) SetStatus(_ context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	s.setStatus = to
	return &models.Order{ID: orderID, Status: to}, nil
}

func (s *stubOrderService) RiderAdvance(_ context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if to != enums.OrderStatusShipped && to != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "riders cannot move orders to "+to.String())
	}
	s.advanced = to
	return &models.Order{ID: orderID, Status: to}, nil
}

func statusRequest(t *testing.T, target, body string, orderID uuid.UUID) *http.Request {
	t.Helper()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID.String())
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAdminOrderUpdateStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("unknown status", func(t *testing.T) {
		req := statusRequest(t, "/api/admin/orders/"+orderID.String()+"/status", `{"status":"teleported"}`, orderID)
		rec := httptest.NewRecorder()
		AdminOrderUpdateStatus(&stubOrderService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{}
		req := statusRequest(t, "/api/admin/orders/"+orderID.String()+"/status", `{"status":"processing"}`, orderID)
		rec := httptest.NewRecorder()
		AdminOrderUpdateStatus(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.setStatus != enums.OrderStatusProcessing {
			t.Fatalf("expected SetStatus(processing), got %q", stub.setStatus)
		}
	})
}

func TestRiderOrderUpdateStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("cancel forbidden", func(t *testing.T) {
		req := statusRequest(t, "/api/rider/orders/"+orderID.String()+"/status", `{"status":"cancelled"}`, orderID)
		rec := httptest.NewRecorder()
		RiderOrderUpdateStatus(&stubOrderService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for rider cancel, got %d", rec.Code)
		}
	})

	t.Run("deliver", func(t *testing.T) {
		stub := &stubOrderService{}
		req := statusRequest(t, "/api/rider/orders/"+orderID.String()+"/status", `{"status":"delivered"}`, orderID)
		rec := httptest.NewRecorder()
		RiderOrderUpdateStatus(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.advanced != enums.OrderStatusDelivered {
			t.Fatalf("expected RiderAdvance(delivered), got %q", stub.advanced)
		}
	})
}
