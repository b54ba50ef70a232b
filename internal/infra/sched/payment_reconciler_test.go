//go:build !integration

package sched_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
	"paystack-billing/internal/infra/sched"
	"paystack-billing/internal/usecase"
)

// fakeRefs applies the created_at window the way the SQL query does.
type fakeRefs struct {
	pending      []*model.PaymentReference
	listErr      error
	createdAfter time.Time
	olderThan    time.Time
	limit        int
}

var _ repository.PaymentReferenceRepository = (*fakeRefs)(nil)

func (f *fakeRefs) Save(ctx context.Context, tx repository.Tx, ref *model.PaymentReference) error {
	return nil
}
func (f *fakeRefs) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentReference, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeRefs) MarkVerified(ctx context.Context, tx repository.Tx, reference, subscriptionID string, verifiedAt time.Time) error {
	return nil
}
func (f *fakeRefs) ListPendingBetween(ctx context.Context, tx repository.Tx, createdAfter, createdBefore time.Time, limit int) ([]*model.PaymentReference, error) {
	f.createdAfter, f.olderThan, f.limit = createdAfter, createdBefore, limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.PaymentReference
	for _, r := range f.pending {
		if !r.CreatedAt.Before(createdAfter) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePayments struct {
	results map[string]error
	callers []*model.Identity
	refs    []string
}

func (f *fakePayments) Initialize(ctx context.Context, caller *model.Identity, plan any) (*usecase.InitializeOutput, error) {
	return nil, errors.New("not used")
}
func (f *fakePayments) Verify(ctx context.Context, caller *model.Identity, reference string) (*usecase.VerifyOutput, error) {
	f.callers = append(f.callers, caller)
	f.refs = append(f.refs, reference)
	if err := f.results[reference]; err != nil {
		return nil, err
	}
	return &usecase.VerifyOutput{Plan: "Basic", Status: model.SubscriptionStatusActive}, nil
}

type fakeLocker struct {
	held     bool
	err      error
	unlocked int
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if l.held {
		return "", domain.ErrLockHeld
	}
	return "token", nil
}
func (l *fakeLocker) Unlock(ctx context.Context, key, token string) error {
	l.unlocked++
	return nil
}

func ref(name string, age time.Duration) *model.PaymentReference {
	return &model.PaymentReference{Reference: name, Status: model.ReferenceStatusPending, CreatedAt: time.Now().Add(-age)}
}

func TestPaymentReconciler_RunOnce(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("should verify stale references with the service identity", func(t *testing.T) {
		// --- Arrange ---
		refs := &fakeRefs{pending: []*model.PaymentReference{
			ref("BBHR_paid", time.Hour),
			ref("BBHR_abandoned", time.Hour),
			ref("BBHR_broken", time.Hour),
		}}
		payments := &fakePayments{results: map[string]error{
			"BBHR_abandoned": &domain.GatewayError{Op: domain.GatewayOpVerify, Message: "verification failed: transaction abandoned"},
			"BBHR_broken":    errors.New("db down"),
		}}
		rec := sched.NewPaymentReconciler(payments, refs, nil, sched.ReconcilerOptions{StaleAfter: 30 * time.Minute, BatchSize: 10}, &logger)

		// --- Act ---
		n, err := rec.RunOnce(ctx)

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 verified, got %d", n)
		}
		if len(payments.refs) != 3 {
			t.Errorf("expected 3 verify calls, got %v", payments.refs)
		}
		for _, c := range payments.callers {
			if !c.IsService() {
				t.Errorf("expected service identity, got %+v", c)
			}
		}
		if refs.limit != 10 || time.Since(refs.olderThan) < 30*time.Minute {
			t.Errorf("unexpected query olderThan=%s limit=%d", refs.olderThan, refs.limit)
		}
	})

	t.Run("should leave references past max age alone", func(t *testing.T) {
		refs := &fakeRefs{pending: []*model.PaymentReference{ref("BBHR_new", time.Hour), ref("BBHR_ancient", 10*24*time.Hour)}}
		payments := &fakePayments{}
		rec := sched.NewPaymentReconciler(payments, refs, nil, sched.ReconcilerOptions{MaxAge: 72 * time.Hour}, &logger)

		if _, err := rec.RunOnce(ctx); err != nil {
			t.Fatal(err)
		}
		if len(payments.refs) != 1 || payments.refs[0] != "BBHR_new" {
			t.Errorf("unexpected verify calls %v", payments.refs)
		}
		if age := time.Since(refs.createdAfter); age < 71*time.Hour || age > 73*time.Hour {
			t.Errorf("expected a 72h lower bound, got %s", refs.createdAfter)
		}
	})

	t.Run("should not spend batch slots on references past max age", func(t *testing.T) {
		var pending []*model.PaymentReference
		for i := 0; i < 5; i++ {
			pending = append(pending, ref("BBHR_ancient", 10*24*time.Hour))
		}
		pending = append([]*model.PaymentReference{ref("BBHR_new", time.Hour)}, pending...)
		refs := &fakeRefs{pending: append(pending, ref("BBHR_newer", 2*time.Hour))}
		payments := &fakePayments{}
		rec := sched.NewPaymentReconciler(payments, refs, nil, sched.ReconcilerOptions{MaxAge: 72 * time.Hour, BatchSize: 2}, &logger)

		if _, err := rec.RunOnce(ctx); err != nil {
			t.Fatal(err)
		}
		if len(payments.refs) != 2 || payments.refs[0] != "BBHR_new" || payments.refs[1] != "BBHR_newer" {
			t.Errorf("expected both recent references in one batch, got %v", payments.refs)
		}
	})

	t.Run("should leave the window open without max age", func(t *testing.T) {
		refs := &fakeRefs{pending: []*model.PaymentReference{ref("BBHR_ancient", 10*24*time.Hour)}}
		payments := &fakePayments{}
		rec := sched.NewPaymentReconciler(payments, refs, nil, sched.ReconcilerOptions{}, &logger)

		if _, err := rec.RunOnce(ctx); err != nil {
			t.Fatal(err)
		}
		if !refs.createdAfter.IsZero() || len(payments.refs) != 1 {
			t.Errorf("unexpected window %s, calls %v", refs.createdAfter, payments.refs)
		}
	})

	t.Run("should skip the pass when another instance holds the lock", func(t *testing.T) {
		refs := &fakeRefs{pending: []*model.PaymentReference{ref("BBHR_x", time.Hour)}}
		payments := &fakePayments{}
		locker := &fakeLocker{held: true}
		rec := sched.NewPaymentReconciler(payments, refs, locker, sched.ReconcilerOptions{}, &logger)

		n, err := rec.RunOnce(ctx)
		if err != nil || n != 0 || len(payments.refs) != 0 {
			t.Fatalf("expected a skipped pass, got n=%d err=%v calls=%v", n, err, payments.refs)
		}
	})

	t.Run("should release the lock after a pass", func(t *testing.T) {
		locker := &fakeLocker{}
		rec := sched.NewPaymentReconciler(&fakePayments{}, &fakeRefs{}, locker, sched.ReconcilerOptions{}, &logger)
		if _, err := rec.RunOnce(ctx); err != nil {
			t.Fatal(err)
		}
		if locker.unlocked != 1 {
			t.Errorf("expected one unlock, got %d", locker.unlocked)
		}
	})

	t.Run("should surface list and lock errors", func(t *testing.T) {
		boom := errors.New("boom")
		rec := sched.NewPaymentReconciler(&fakePayments{}, &fakeRefs{listErr: boom}, nil, sched.ReconcilerOptions{}, &logger)
		if _, err := rec.RunOnce(ctx); !errors.Is(err, boom) {
			t.Errorf("expected list error, got %v", err)
		}
		rec = sched.NewPaymentReconciler(&fakePayments{}, &fakeRefs{}, &fakeLocker{err: boom}, sched.ReconcilerOptions{}, &logger)
		if _, err := rec.RunOnce(ctx); !errors.Is(err, boom) {
			t.Errorf("expected lock error, got %v", err)
		}
	})
}
