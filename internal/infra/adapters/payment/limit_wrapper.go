package payment

import (
	"context"

	"paystack-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PaymentGateway = (*limitedGateway)(nil)

type limitedGateway struct {
	inner adapter.PaymentGateway
	sem   chan struct{}
}

// NewLimitedGateway caps in-flight provider calls. Callers waiting for a
// slot give up when their context ends.
func NewLimitedGateway(inner adapter.PaymentGateway, maxConcurrent int) adapter.PaymentGateway {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedGateway{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedGateway) Name() string { return l.inner.Name() }

func (l *limitedGateway) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limitedGateway) Initialize(ctx context.Context, req adapter.InitializeRequest) (*adapter.InitializeResult, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-l.sem }()
	return l.inner.Initialize(ctx, req)
}

func (l *limitedGateway) Verify(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-l.sem }()
	return l.inner.Verify(ctx, reference)
}
