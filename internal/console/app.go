package console

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"StoreAdmin/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// MutationsPerMin caps writes per client IP. Zero uses the default.
	MutationsPerMin int
}

const (
	defaultMutationsPerMin = 60
	limitWindow            = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil && deps.Log != nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	setupMiddleware(r, deps)
	setupRoutes(r, s, deps, metricsOn)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if deps.Registry != nil {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps, metricsOn bool) {
	perMin := deps.MutationsPerMin
	if perMin <= 0 {
		perMin = defaultMutationsPerMin
	}
	limiter := kit.NewIPRateLimiter(perMin, limitWindow)

	r.Route("/view", func(vr chi.Router) {
		vr.Get("/", s.handleView)
		vr.Post("/refresh", s.handleRefresh)
		vr.Put("/criteria", s.handleCriteria)
		vr.Post("/suggestions/select", s.handleSelectSuggestion)
		vr.Post("/page/next", s.handleNext)
		vr.Post("/page/prev", s.handlePrev)
		vr.Put("/page", s.handleGoTo)
	})

	r.Route("/products", func(pr chi.Router) {
		pr.With(limiter.Middleware).Post("/", s.handleCreateProduct)
		pr.Get("/{id}/edit-form", s.handleEditForm)
		pr.With(limiter.Middleware).Put("/{id}", s.handleUpdateProduct)
		pr.With(limiter.Middleware).Post("/{id}/delete-requests", s.handleRequestDelete)
	})

	r.Route("/delete-requests/{cid}", func(dr chi.Router) {
		dr.With(limiter.Middleware).Post("/confirm", s.handleConfirmDelete)
		dr.Delete("/", s.handleCancelDelete)
	})

	r.Route("/orders", func(or chi.Router) {
		or.Get("/", s.handleOrders)
		or.Post("/refresh", s.handleRefreshOrders)
		or.With(limiter.Middleware).Post("/", s.handleCreateOrder)
		or.With(limiter.Middleware).Delete("/{id}", s.handleDeleteOrder)
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.handleReady)

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
