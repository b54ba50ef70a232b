// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/config"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/domain/ports/repository"
	"paystack-billing/internal/infra/adapters/auth"
	"paystack-billing/internal/infra/adapters/mail"
	payAdapters "paystack-billing/internal/infra/adapters/payment"
	"paystack-billing/internal/infra/api"
	pg "paystack-billing/internal/infra/db/postgres"
	"paystack-billing/internal/infra/logging"
	"paystack-billing/internal/infra/metrics"
	red "paystack-billing/internal/infra/redis"
	"paystack-billing/internal/infra/sched"
	"paystack-billing/internal/infra/scheduler"
	"paystack-billing/internal/infra/worker"
	"paystack-billing/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, in-memory gateway without a key)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	for _, p := range model.Plans() {
		logger.Debug().Str("plan", p.Name).Str("price", p.Price().String()).Int("days", p.ValidityDays).Msg("plan")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second, logger)

	// ---- Repositories ----
	var userRepo repository.UserRepository = pg.NewUserRepo(pool)
	refRepo := pg.NewPaymentReferenceRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	companyRepo := pg.NewCompanyRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Redis (optional) ----
	var (
		limiter api.Limiter
		locker  red.Locker
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		if cfg.Server.InitializeRateLimit > 0 {
			limiter = red.NewRateLimiter(redisClient, cfg.Server.InitializeRateLimit, time.Minute)
		}
		locker = red.NewLocker(redisClient)
		userRepo = pg.NewUserRepoCacheDecorator(userRepo, redisClient, cfg.Redis.TTL, logger)
		logger.Info().Msg("redis enabled: rate limiting, user cache, reconciler lock")
	}

	// ---- Adapters ----
	var gateway adapter.PaymentGateway
	if cfg.Paystack.SecretKey == "" {
		logger.Warn().Msg("paystack.secret_key empty; using in-memory gateway")
		gateway = payAdapters.NewNoopPaymentGateway()
	} else {
		psg, err := payAdapters.NewPaystackGateway(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, cfg.Paystack.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("paystack gateway")
		}
		gateway = psg
	}
	gateway = payAdapters.NewLimitedGateway(gateway, cfg.Paystack.MaxConcurrent)

	verifier := payAdapters.NewPaystackWebhookVerifier(cfg.Paystack.SecretKey)
	resolver := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.ServiceRoleKey)
	mailer := mail.NewLogMailer(logger, cfg.Runtime.Dev)

	// ---- Worker pool ----
	workers := worker.NewPool(cfg.Worker.Workers, logger)
	workers.Start(ctx)

	// ---- Use cases ----
	paymentUC := metrics.InstrumentPayments(usecase.NewPaymentUseCase(
		userRepo, refRepo, subRepo, payRepo, companyRepo, gateway, txManager,
		usecase.PaymentOptions{ReferencePrefix: cfg.Paystack.ReferencePrefix, Currency: cfg.Paystack.Currency},
		logger,
	))
	webhookUC := usecase.NewWebhookUseCase(verifier, paymentUC, workers, logger)
	notificationUC := usecase.NewNotificationUseCase(mailer, logger)

	// ---- Reconciler (optional) ----
	var reconcile *scheduler.Scheduler
	if cfg.Reconciler.Interval > 0 {
		job := sched.NewPaymentReconciler(paymentUC, refRepo, locker, sched.ReconcilerOptions{
			StaleAfter: cfg.Reconciler.StaleAfter,
			MaxAge:     cfg.Reconciler.MaxAge,
			BatchSize:  cfg.Reconciler.BatchSize,
			LockTTL:    cfg.Reconciler.Interval,
		}, logger)
		reconcile = scheduler.NewScheduler(job, scheduler.Options{
			Interval:   cfg.Reconciler.Interval,
			Timeout:    cfg.Reconciler.Interval,
			RunOnStart: true,
		}, logger)
		reconcile.Start(ctx)
	}

	// ---- HTTP ----
	srv := api.NewServer(cfg.Server, cfg.Metrics, api.Deps{
		Payments:      paymentUC,
		Webhooks:      webhookUC,
		Notifications: notificationUC,
		Resolver:      resolver,
		Limiter:       limiter,
		Ready:         pool.Ping,
	}, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout + 5*time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("base_path", cfg.Server.BasePath).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	shutdown(server, reconcile, workers, logger)
	cancel()
}

func shutdown(server *http.Server, reconcile *scheduler.Scheduler, workers *worker.Pool, logger *zerolog.Logger) {
	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	if err := server.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if reconcile != nil {
		reconcile.Stop()
	}
	// Drain queued webhook verifications before the pool goes away.
	workers.Stop()
	logger.Info().Msg("stopped")
}
