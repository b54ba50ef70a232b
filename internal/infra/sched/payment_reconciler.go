package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
	"paystack-billing/internal/infra/logging"
	"paystack-billing/internal/infra/metrics"
	red "paystack-billing/internal/infra/redis"
	"paystack-billing/internal/usecase"
)

const reconcilerLockKey = "lock:payment_reconciler"

// PaymentReconciler re-verifies pending references that never saw a
// webhook or client verify. It covers lost callbacks and crashes between
// checkout and verification.
type PaymentReconciler struct {
	uc         usecase.PaymentUseCase
	refs       repository.PaymentReferenceRepository
	locker     red.Locker // optional; keeps one pass per cluster
	staleAfter time.Duration
	maxAge     time.Duration
	batch      int
	lockTTL    time.Duration
	now        func() time.Time
	log        *zerolog.Logger
}

type ReconcilerOptions struct {
	StaleAfter time.Duration // minimum age before a reference is retried
	MaxAge     time.Duration // older references are never listed; 0 means no limit
	BatchSize  int
	LockTTL    time.Duration
}

func NewPaymentReconciler(uc usecase.PaymentUseCase, refs repository.PaymentReferenceRepository, locker red.Locker, opts ReconcilerOptions, logger *zerolog.Logger) *PaymentReconciler {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 30 * time.Minute
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Minute
	}
	l := logger.With().Str("component", "payment_reconciler").Logger()
	return &PaymentReconciler{
		uc:         uc,
		refs:       refs,
		locker:     locker,
		staleAfter: opts.StaleAfter,
		maxAge:     opts.MaxAge,
		batch:      opts.BatchSize,
		lockTTL:    opts.LockTTL,
		now:        time.Now,
		log:        &l,
	}
}

func (w *PaymentReconciler) Name() string { return "payment_reconciler" }

// RunOnce verifies one batch and returns how many references became paid.
func (w *PaymentReconciler) RunOnce(ctx context.Context) (int, error) {
	defer logging.TraceDuration(w.log, "reconciler.run")()

	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, reconcilerLockKey, w.lockTTL)
		if errors.Is(err, domain.ErrLockHeld) {
			metrics.IncReconcileRun("skipped")
			return 0, nil
		}
		if err != nil {
			metrics.IncReconcileRun("error")
			return 0, err
		}
		defer func() {
			// The pass may have used up ctx; release on a fresh one.
			uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.locker.Unlock(uctx, reconcilerLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("unlock failed")
			}
		}()
	}

	now := w.now()
	var createdAfter time.Time
	if w.maxAge > 0 {
		createdAfter = now.Add(-w.maxAge)
	}
	pending, err := w.refs.ListPendingBetween(ctx, repository.NoTX, createdAfter, now.Add(-w.staleAfter), w.batch)
	if err != nil {
		metrics.IncReconcileRun("error")
		return 0, err
	}

	verified := 0
	for _, ref := range pending {
		if ctx.Err() != nil {
			break
		}
		rctx := logging.WithReference(ctx, ref.Reference)
		_, err := w.uc.Verify(rctx, model.ServiceIdentity(), ref.Reference)
		var gwErr *domain.GatewayError
		switch {
		case err == nil:
			verified++
			metrics.IncReconciledReference("verified")
			logging.With(rctx, w.log).Info().Msg("pending reference reconciled")
		case errors.As(err, &gwErr):
			metrics.IncReconciledReference("still_pending")
			logging.With(rctx, w.log).Debug().Str("reason", gwErr.Message).Msg("reference still unpaid")
		default:
			metrics.IncReconciledReference("error")
			logging.With(rctx, w.log).Error().Err(err).Msg("reconcile verify failed")
		}
	}
	metrics.IncReconcileRun("ok")
	return verified, nil
}
