package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zestcart/zestcart-backend/api/controllers"
	"github.com/zestcart/zestcart-backend/api/middleware"
	"github.com/zestcart/zestcart-backend/internal/address"
	"github.com/zestcart/zestcart-backend/internal/cart"
	checkoutsvc "github.com/zestcart/zestcart-backend/internal/checkout"
	"github.com/zestcart/zestcart-backend/internal/delivery"
	"github.com/zestcart/zestcart-backend/internal/orders"
	"github.com/zestcart/zestcart-backend/pkg/config"
	"github.com/zestcart/zestcart-backend/pkg/db"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	"github.com/zestcart/zestcart-backend/pkg/logger"
	"github.com/zestcart/zestcart-backend/pkg/metrics"
	pkgredis "github.com/zestcart/zestcart-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *pkgredis.Client
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry

	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	DeliveryService delivery.Service
	OrdersService   orders.Service
	AddressService  address.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutLimit,
	)
	quotePolicy := middleware.NewRateLimitPolicy(
		"quote",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleCustomer))
			r.Get("/", controllers.CartList(deps.CartService, logg))
			r.Post("/", controllers.CartAdd(deps.CartService, logg))
			r.Delete("/{cartItemId}", controllers.CartRemove(deps.CartService, logg))
			r.With(middleware.RateLimit(checkoutPolicy, deps.Redis, logg)).
				Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
		})

		r.Route("/delivery", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleCustomer))
			r.With(middleware.RateLimit(quotePolicy, deps.Redis, logg)).
				Post("/quote", controllers.DeliveryQuote(deps.DeliveryService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersService, logg))
			r.Get("/status-choices", controllers.OrderStatusChoices(deps.OrdersService))
			r.Get("/{orderId}", controllers.OrderGet(deps.OrdersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleShopAdmin, enums.UserRoleSuperAdmin))
				r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.OrdersService, logg))
				r.Patch("/{orderId}/payment-status", controllers.OrderUpdatePaymentStatus(deps.OrdersService, logg))
				r.Post("/{orderId}/assign", controllers.OrderAssign(deps.OrdersService, logg))
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleCustomer))
			r.Get("/", controllers.AddressList(deps.AddressService, logg))
			r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(deps.AddressService, logg))
		})
	})

	return r
}
