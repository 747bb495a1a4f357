package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stridewear/storefront-backend/api/controllers"
	"github.com/stridewear/storefront-backend/api/middleware"
	"github.com/stridewear/storefront-backend/internal/cart"
	"github.com/stridewear/storefront-backend/internal/catalog"
	checkoutsvc "github.com/stridewear/storefront-backend/internal/checkout"
	"github.com/stridewear/storefront-backend/internal/orders"
	"github.com/stridewear/storefront-backend/pkg/config"
	"github.com/stridewear/storefront-backend/pkg/db"
	"github.com/stridewear/storefront-backend/pkg/logger"
	"github.com/stridewear/storefront-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisPinger     db.Pinger
	SessionManager  middleware.SessionIssuer
	Registry        *prometheus.Registry
	CatalogRepo     *catalog.Repository
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrderService    orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.Session(deps.SessionManager, cfg.Session, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogRepo, logg))
			r.Get("/{slug}", controllers.ProductDetail(deps.CatalogRepo, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireUser(logg)).Get("/", controllers.OrderList(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
			r.Post("/{orderId}/status", controllers.OrderUpdateStatus(deps.OrderService, logg))
		})
	})

	return r
}
