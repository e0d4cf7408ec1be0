package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gestorecommerce/catalog-backend/api/controllers"
	"github.com/gestorecommerce/catalog-backend/api/middleware"
	"github.com/gestorecommerce/catalog-backend/internal/catalog"
	"github.com/gestorecommerce/catalog-backend/pkg/config"
	"github.com/gestorecommerce/catalog-backend/pkg/db"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
	"github.com/gestorecommerce/catalog-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	storefront controllers.Storefront,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient), storefront))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Post("/toggle", controllers.CatalogToggle(catalogService, logg))
			r.Post("/adopt-woo", controllers.CatalogAdopt(catalogService, logg))
			r.Get("/live-compare", controllers.CatalogLiveCompare(catalogService, logg))
			r.Post("/product", controllers.CatalogCreateProduct(catalogService, logg))
			r.Put("/product/{productId}", controllers.CatalogUpdateProduct(catalogService, logg))
			r.Get("/debug/{sku}", controllers.CatalogDebugSKU(catalogService, logg))
		})

		r.Route("/woo", func(r chi.Router) {
			r.Get("/test", controllers.WooTest(storefront, logg))
			r.Get("/categories", controllers.WooCategories(storefront, logg))
			r.Post("/categories", controllers.WooCreateCategory(storefront, logg))
			r.Get("/tags", controllers.WooTags(storefront, logg))
			r.Post("/tags", controllers.WooCreateTag(storefront, logg))
			r.Delete("/tags/{tagId}", controllers.WooDeleteTag(storefront, logg))
			r.Get("/brands", controllers.WooBrands(storefront, logg))
			r.Get("/reports/sales", controllers.WooSalesReport(storefront, logg))
		})
	})

	return r
}

// redisPinger keeps a nil *redis.Client from turning into a non-nil
// interface inside the readiness probe.
func redisPinger(client *redis.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
