package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumamart/storefront-backend/api/controllers"
	"github.com/lumamart/storefront-backend/api/middleware"
	authsvc "github.com/lumamart/storefront-backend/internal/auth"
	cartsvc "github.com/lumamart/storefront-backend/internal/cart"
	"github.com/lumamart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/lumamart/storefront-backend/internal/checkout"
	"github.com/lumamart/storefront-backend/internal/coupons"
	"github.com/lumamart/storefront-backend/internal/dashboard"
	ordersvc "github.com/lumamart/storefront-backend/internal/orders"
	"github.com/lumamart/storefront-backend/internal/profiles"
	"github.com/lumamart/storefront-backend/pkg/config"
	"github.com/lumamart/storefront-backend/pkg/db"
	"github.com/lumamart/storefront-backend/pkg/enums"
	"github.com/lumamart/storefront-backend/pkg/logger"
	"github.com/lumamart/storefront-backend/pkg/metrics"
	pkgredis "github.com/lumamart/storefront-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth      authsvc.Service
	Catalog   catalog.Service
	Cart      cartsvc.Service
	Coupons   coupons.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Profiles  profiles.Service
	Dashboard dashboard.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, redisClient, logg),
				middleware.Idempotency(redisClient, logg),
			).Post("/register", controllers.Register(svcs.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.Login(svcs.Auth, logg))
		})

		// Storefront browsing is anonymous.
		r.Get("/home", controllers.Home(svcs.Catalog, logg))
		r.Get("/products", controllers.ProductsList(svcs.Catalog, logg))
		r.Get("/products/slug/{slug}", controllers.ProductGetBySlug(svcs.Catalog, logg))
		r.Get("/products/{productID}", controllers.ProductGet(svcs.Catalog, logg))
		r.Get("/products/{productID}/reviews", controllers.ReviewsList(svcs.Catalog, logg))
		r.Get("/categories", controllers.CategoriesList(svcs.Catalog, logg))

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/private/ping", controllers.PrivatePing())

			r.With(middleware.Idempotency(redisClient, logg)).
				Post("/products/{productID}/reviews", controllers.ReviewCreate(svcs.Catalog, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{productID}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Cart, logg))
			})

			r.Post("/coupons/preview", controllers.CouponPreview(svcs.Coupons, logg))

			r.With(middleware.Idempotency(redisClient, logg)).
				Post("/checkout", controllers.CheckoutPlaceOrder(svcs.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(svcs.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
				r.With(middleware.Idempotency(redisClient, logg)).
					Post("/{orderID}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(svcs.Profiles, logg))
				r.Patch("/", controllers.ProfileUpdate(svcs.Profiles, logg))
				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", controllers.AddressesList(svcs.Profiles, logg))
					r.Post("/", controllers.AddressCreate(svcs.Profiles, logg))
					r.Put("/{addressID}", controllers.AddressUpdate(svcs.Profiles, logg))
					r.Delete("/{addressID}", controllers.AddressDelete(svcs.Profiles, logg))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin.String(), logg))

				r.Get("/dashboard", controllers.AdminDashboard(svcs.Dashboard, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminProductsList(svcs.Catalog, logg))
					r.With(middleware.Idempotency(redisClient, logg)).
						Post("/", controllers.AdminProductCreate(svcs.Catalog, logg))
					r.Patch("/{productID}", controllers.AdminProductUpdate(svcs.Catalog, logg))
					r.Delete("/{productID}", controllers.AdminProductDelete(svcs.Catalog, logg))
				})

				r.Route("/coupons", func(r chi.Router) {
					r.Get("/", controllers.AdminCouponsList(svcs.Coupons, logg))
					r.With(middleware.Idempotency(redisClient, logg)).
						Post("/", controllers.AdminCouponCreate(svcs.Coupons, logg))
					r.Patch("/{couponID}", controllers.AdminCouponUpdate(svcs.Coupons, logg))
					r.Delete("/{couponID}", controllers.AdminCouponDelete(svcs.Coupons, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminOrdersList(svcs.Orders, logg))
					r.Get("/{orderID}", controllers.AdminOrderGet(svcs.Orders, logg))
					r.Patch("/{orderID}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
				})
			})

			r.Route("/rider", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleRider.String(), logg))

				r.Get("/orders", controllers.RiderQueue(svcs.Orders, logg))
				r.Patch("/orders/{orderID}/status", controllers.RiderOrderUpdateStatus(svcs.Orders, logg))
			})
		})
	})

	return r
}
