package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopcart-backend/api/controllers"
	"github.com/angelmondragon/shopcart-backend/api/middleware"
	"github.com/angelmondragon/shopcart-backend/internal/cart"
	"github.com/angelmondragon/shopcart-backend/internal/catalog"
	"github.com/angelmondragon/shopcart-backend/internal/notifications"
	"github.com/angelmondragon/shopcart-backend/internal/storage"
	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// Dependencies are the services mounted by the router.
type Dependencies struct {
	Catalog  catalog.Service
	Cart     cart.Service
	Feed     *notifications.Feed
	Pingers  map[string]storage.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, deps.Cart, logg))
			r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.Catalog, deps.Cart, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Catalog, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.CouponList(deps.Catalog))
			r.Post("/", controllers.CouponCreate(deps.Catalog, logg))
			r.Get("/{code}", controllers.CouponGet(deps.Catalog, logg))
			r.Delete("/{code}", controllers.CouponDelete(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Put("/coupon", controllers.CartApplyCoupon(deps.Cart, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(deps.Cart, logg))
			r.Post("/checkout", controllers.CartCheckout(deps.Cart, logg))
		})

		if deps.Feed != nil {
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(deps.Feed))
				r.Delete("/{notificationId}", controllers.NotificationDismiss(deps.Feed, logg))
			})
		}
	})

	return r
}
