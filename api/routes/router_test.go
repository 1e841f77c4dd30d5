package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumamart/storefront-backend/internal/catalog"
	pkgauth "github.com/lumamart/storefront-backend/pkg/auth"
	"github.com/lumamart/storefront-backend/pkg/config"
	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	"github.com/lumamart/storefront-backend/pkg/logger"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalogService struct {
	catalog.Service
}

func (stubCatalogService) ListProducts(context.Context, pagination.Params, catalog.ProductFilters) (*catalog.ProductList, error) {
	return &catalog.ProductList{Products: []models.Product{}}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret-router-test-secret",
		Issuer:            "lumamart",
		ExpirationMinutes: 15,
	}
	return cfg
}

func newTestRouter() http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(testConfig(), logg, stubPinger{}, nil, nil, Services{
		Catalog: stubCatalogService{},
	})
}

func mintToken(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductsArePublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous browse, got %d", rec.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", rec.Code)
	}
}

func TestRiderRoutesRejectCustomers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/rider/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on rider route, got %d", rec.Code)
	}
}
