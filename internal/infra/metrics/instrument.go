package metrics

import (
	"context"
	"errors"
	"time"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/usecase"
)

// Compile-time check
var _ usecase.PaymentUseCase = (*instrumentedPayments)(nil)

type instrumentedPayments struct {
	inner usecase.PaymentUseCase
}

// InstrumentPayments wraps a PaymentUseCase so every caller (HTTP handlers,
// webhook tasks, the reconciler) is counted the same way.
func InstrumentPayments(inner usecase.PaymentUseCase) usecase.PaymentUseCase {
	return &instrumentedPayments{inner: inner}
}

func (p *instrumentedPayments) Initialize(ctx context.Context, caller *model.Identity, plan any) (*usecase.InitializeOutput, error) {
	out, err := p.inner.Initialize(ctx, caller, plan)
	if err != nil {
		IncPayment("initialize", "failed")
		return nil, err
	}
	IncPayment("initialize", "ok")
	return out, nil
}

func (p *instrumentedPayments) Verify(ctx context.Context, caller *model.Identity, reference string) (*usecase.VerifyOutput, error) {
	start := time.Now()
	out, err := p.inner.Verify(ctx, caller, reference)

	who := "user"
	if caller.IsService() {
		who = "service"
	}
	ObserveVerify(who, verifyReason(err), time.Since(start))
	if err != nil {
		IncPayment("verify", "failed")
		return nil, err
	}
	IncPayment("verify", "ok")
	AddPaymentRevenue(out.Currency, model.MinorToMajor(out.Amount))
	IncSubscriptionGranted(out.Plan)
	return out, nil
}

func verifyReason(err error) string {
	var gwErr *domain.GatewayError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrMissingReference):
		return "missing_reference"
	case errors.As(err, &gwErr):
		return "gateway_refused"
	default:
		return "error"
	}
}
