package router

import (
	"encoding/json"
	"net/http"
	"time"

	"pulse-shop/internal/handler"
	"pulse-shop/internal/metrics"
	"pulse-shop/internal/middleware"
	"pulse-shop/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Auth     *handler.AuthHandler
	Stats    *handler.StatsHandler
	Health   http.HandlerFunc
}

// Options configures the cross-cutting middleware.
type Options struct {
	Authorizer         middleware.Authorizer
	Metrics            *metrics.Metrics
	CORSAllowedOrigin  string
	LoginRatePerMinute int
	RequestTimeout     time.Duration
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Recovery sits inside Logging and Metrics so panics are recorded as 500s.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(opts.CORSAllowedOrigin))
	r.Use(chimw.Timeout(opts.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusNotFound, "not found", model.ErrCodeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusMethodNotAllowed, "method not allowed", model.ErrCodeMethodNotAllowed)
	})

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	loginLimiter := middleware.NewIPRateLimiter(opts.LoginRatePerMinute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/products", h.Products.List)
		r.Get("/products/{id}", h.Products.GetByID)
		r.Post("/orders", h.Orders.Create)
		r.Get("/metrics", h.Stats.Stats)

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.LoginRateLimit(loginLimiter, opts.Metrics, logger)).
				Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(opts.Authorizer, logger))

				r.Get("/products", h.Products.List)
				r.Post("/products", h.Products.Create)
				r.Put("/products/{id}", h.Products.Update)
				r.Delete("/products/{id}", h.Products.Delete)
				r.Get("/orders", h.Orders.ListRecent)
			})
		})
	})

	return r
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         message,
		Code:          code,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}
