package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vyhuholl/order-management-rest-api/internal/http/docs"
	"github.com/vyhuholl/order-management-rest-api/internal/http/handlers"
	"github.com/vyhuholl/order-management-rest-api/pkg/metrics"
)

type Handlers struct {
	Ready       http.Handler
	Register    http.Handler
	Token       http.Handler
	CreateOrder http.Handler
	ListOrders  http.Handler
	GetOrder    http.Handler
	PatchOrder  http.Handler

	Auth        func(http.Handler) http.Handler
	RootLimiter *handlers.IPRateLimiter
}

type Options struct {
	Service     string
	CORSOrigins []string
	Log         zerolog.Logger
}

func NewRouter(opts Options, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(opts.Log))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(opts.Service))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.With(h.RootLimiter.Middleware).Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/readyz", h.Ready)

	r.Method(http.MethodPost, "/register/", h.Register)
	r.Method(http.MethodPost, "/token/", h.Token)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth)

		r.Get("/users/me/", handlers.Me)
		r.Route("/orders", func(r chi.Router) {
			r.Method(http.MethodPost, "/", h.CreateOrder)
			r.Method(http.MethodGet, "/user/{user_id}", h.ListOrders)
			r.Method(http.MethodGet, "/{id}", h.GetOrder)
			r.Method(http.MethodPatch, "/{id}", h.PatchOrder)
		})
	})

	return r
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("bytes", size).
		Dur("duration", d).
		Str("remote", r.RemoteAddr).
		Msg("request")
})
