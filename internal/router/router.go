// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fitlog/fitlog/internal/config"
	"github.com/fitlog/fitlog/internal/handler"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/service"
)

// Deps holds everything the router wires together.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  metrics.Recorder
	Exposer  http.Handler // Prometheus exposition; nil disables /metrics
	Accounts *service.AccountService
	Foods    *service.FoodLogbook
	Workouts *service.WorkoutLogbook
	Tokens   middleware.TokenParser
	Limiter  middleware.Limiter
	Store    handler.HealthChecker
	Cache    handler.HealthChecker
}

// New configures the chi router with all routes and middleware.
func New(d Deps) *chi.Mux {
	cfg, logger := d.Config, d.Logger
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoop()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.Store, d.Cache)
	metricsHandler := handler.NewMetricsHandler(d.Exposer)
	accountHandler := handler.NewAccountHandler(d.Accounts, logger)
	foodHandler := handler.NewFoodHandler(d.Foods, logger)
	workoutHandler := handler.NewWorkoutHandler(d.Workouts, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, d.Metrics))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(cfg.GetCORSAllowedOrigins()...))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Operational endpoints (no auth required)
	r.Get("/", h.Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: d.Tokens,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        logger,
		Limiter:       d.Limiter,
		Metrics:       d.Metrics,
		UserEnabled:   cfg.RateLimitAPIEnabled,
		UserPerMinute: cfg.RateLimitAPIPerMinute,
		UserBurst:     cfg.RateLimitAPIBurst,
		IPEnabled:     cfg.RateLimitAuthEnabled,
		IPRPS:         cfg.RateLimitAuthRPS,
		IPBurst:       cfg.RateLimitAuthBurst,
	}

	r.Route(apiPrefix(cfg), func(r chi.Router) {
		// Account routes, limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Use(middleware.RequireJSON())

			r.Post("/register", accountHandler.Register)
			r.Post("/login", accountHandler.Login)
			r.Post("/reset-password", accountHandler.ResetPassword)
			if d.Accounts.RequiresResetChallenge() {
				r.Post("/reset-password/challenge", accountHandler.ResetChallenge)
			}
		})

		// Session routes, limited per account
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitUser(rateLimitCfg))
			r.Use(middleware.RequireJSON())

			r.Get("/profile", accountHandler.Profile)
			r.Route("/food", foodHandler.Routes)
			r.Route("/workout", workoutHandler.Routes)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

func apiPrefix(cfg *config.Config) string {
	if cfg.APIPrefix == "" {
		return "/"
	}
	return cfg.APIPrefix
}
