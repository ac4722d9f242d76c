package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srabonmojumder/velora-Ecommerce/internal/service"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/health"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "storefront"

// requestTimeout leaves room for the simulated checkout delay.
const requestTimeout = 30 * time.Second

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.StorefrontService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cors middleware.CORSConfig,
	limit middleware.RateLimitConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cors))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(svc.Catalog(), logger)
	cartHandler := NewCartHandler(svc, logger)
	collectionsHandler := NewCollectionsHandler(svc, logger)
	checkoutHandler := NewCheckoutHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog endpoints are shared by every origin.
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/testimonials", catalogHandler.ListTestimonials)
		r.Get("/home", catalogHandler.Home)
		r.Get("/currencies", catalogHandler.ListCurrencies)

		// Everything below reads and writes the caller's storage slot.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOrigin)
			r.Use(middleware.RateLimit(limit, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Get("/summary", cartHandler.GetSummary)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateItem)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", collectionsHandler.GetWishlist)
				r.Get("/{productId}", collectionsHandler.WishlistContains)
				r.Post("/{productId}", collectionsHandler.AddToWishlist)
				r.Delete("/{productId}", collectionsHandler.RemoveFromWishlist)
				r.Post("/{productId}/toggle", collectionsHandler.ToggleWishlist)
			})

			r.Route("/compare", func(r chi.Router) {
				r.Get("/", collectionsHandler.GetCompare)
				r.Delete("/", collectionsHandler.ClearCompare)
				r.Post("/{productId}", collectionsHandler.AddToCompare)
				r.Delete("/{productId}", collectionsHandler.RemoveFromCompare)
			})

			r.Route("/recently-viewed", func(r chi.Router) {
				r.Get("/", collectionsHandler.GetRecentlyViewed)
				r.Delete("/", collectionsHandler.ClearRecentlyViewed)
				r.Post("/{productId}", collectionsHandler.RecordView)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})

	return r
}
