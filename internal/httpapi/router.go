package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/salsheli/salsheli-backend/internal/chains"
	"github.com/salsheli/salsheli-backend/pkg/logger"
	"github.com/salsheli/salsheli-backend/pkg/metrics"
)

// Deps carries everything the router serves.
type Deps struct {
	Compare ComparisonService
	Lists   ListStore
	Search  ProductSearcher
	Popular PopularLister
	Chains  *chains.Normalizer
	DB      Pinger
	Logger  *logger.Logger
}

// NewRouter builds the API routes with logging, metrics and CORS applied.
func NewRouter(deps Deps) http.Handler {
	if deps.Chains == nil {
		deps.Chains = chains.NewNormalizer(chains.BuildChainAliasTable())
	}

	r := chi.NewRouter()

	r.Use(
		chimw.Recoverer,
		requestID(deps.Logger),
		metrics.HTTPMiddleware,
	)

	r.Get("/healthz", Healthz(deps.DB, deps.Logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/compare", CompareList(deps.Compare, deps.Logger))

		r.Route("/lists/{listID}/items", func(r chi.Router) {
			r.Get("/", ListItemsFetch(deps.Lists, deps.Logger))
			r.Post("/", ListItemCreate(deps.Lists, deps.Logger))
		})

		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Post("/toggle", ItemToggle(deps.Lists, deps.Logger))
			r.Patch("/", ItemQuantityUpdate(deps.Lists, deps.Logger))
			r.Delete("/", ItemDelete(deps.Lists, deps.Logger))
		})

		r.Get("/search", ProductSearch(deps.Search, deps.Chains, deps.Logger))
		r.Get("/products/popular", PopularProducts(deps.Popular, deps.Logger))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return c.Handler(r)
}
