package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional fields left nil
// disable the corresponding middleware.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	AccountHandler     *handler.AccountHandler
	RegistryHandler    *handler.RegistryHandler
	HealthHandler      *handler.HealthHandler

	Logger zerolog.Logger

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	JWTManager       *auth.JWTManager
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Submit)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.SetActive)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/{id}/reconciliation", cfg.AccountHandler.Reconcile)
		})

		r.Get("/reconciliation", cfg.AccountHandler.LastReport)

		reg := cfg.RegistryHandler
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", reg.CreateCustomer)
			r.Get("/{id}", reg.GetCustomer)
			r.Put("/{id}", reg.UpdateCustomer)
			r.Delete("/{id}", reg.DeleteCustomer)
		})

		r.Route("/branches", func(r chi.Router) {
			r.Post("/", reg.CreateBranch)
			r.Get("/{id}", reg.GetBranch)
			r.Put("/{id}", reg.UpdateBranch)
			r.Delete("/{id}", reg.DeleteBranch)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", reg.IssueCard)
			r.Get("/{id}", reg.GetCard)
			r.Put("/{id}", reg.UpdateCard)
			r.Delete("/{id}", reg.DeleteCard)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", reg.CreateLoan)
			r.Get("/{id}", reg.GetLoan)
			r.Put("/{id}", reg.UpdateLoan)
			r.Delete("/{id}", reg.DeleteLoan)
		})
	})

	return r
}
