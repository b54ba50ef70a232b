package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"paystack-billing/internal/config"
	"paystack-billing/internal/domain/ports/adapter"
	red "paystack-billing/internal/infra/redis"
	"paystack-billing/internal/usecase"
)

// Route names under the configured base path.
const (
	RouteInitialize   = "/paystack-initialize"
	RouteVerify       = "/paystack-verify"
	RouteWebhook      = "/paystack-webhook"
	RouteNotification = "/send-email-notification"
)

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Payments      usecase.PaymentUseCase
	Webhooks      usecase.WebhookUseCase
	Notifications usecase.NotificationUseCase
	Resolver      adapter.IdentityResolver
	Limiter       Limiter                         // optional
	Ready         func(ctx context.Context) error // optional readiness probe
}

// Server wires the payment functions to a chi router.
type Server struct {
	payments usecase.PaymentUseCase
	webhooks usecase.WebhookUseCase
	notify   usecase.NotificationUseCase
	resolver adapter.IdentityResolver
	limiter  Limiter
	ready    func(ctx context.Context) error

	cfg     config.ServerConfig
	metrics config.MetricsConfig
	maxBody int64
	log     *zerolog.Logger
}

func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Deps, logger *zerolog.Logger) *Server {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Server{
		payments: deps.Payments,
		webhooks: deps.Webhooks,
		notify:   deps.Notifications,
		resolver: deps.Resolver,
		limiter:  deps.Limiter,
		ready:    deps.Ready,
		cfg:      cfg,
		metrics:  metricsCfg,
		maxBody:  maxBody,
		log:      logger,
	}
}

// Handler builds the router. Every response carries permissive CORS
// headers and any OPTIONS request is answered with 200 "ok".
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(s.log),
		RequestLog(s.log),
		Recover(s.log),
		CORS(),
		Preflight,
	)

	r.Get("/health", s.handleHealth)
	if s.metrics.Enabled {
		r.Handle(s.metrics.Path, promhttp.Handler())
	}

	routes := func(r chi.Router) {
		if s.cfg.WriteTimeout > 0 {
			r.Use(Timeout(s.cfg.WriteTimeout))
		}

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.resolver, s.log))
			r.With(RateLimit(s.limiter, red.InitializeKey, RouteInitialize, s.log)).
				Post(RouteInitialize, s.handleInitialize)
			r.Post(RouteVerify, s.handleVerify)
		})

		r.Post(RouteWebhook, s.handleWebhook)
		r.Post(RouteNotification, s.handleNotification)
	}
	if base := strings.TrimRight(s.cfg.BasePath, "/"); base != "" {
		r.Route(base, routes)
	} else {
		r.Group(routes)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
