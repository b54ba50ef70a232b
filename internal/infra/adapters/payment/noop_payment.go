package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paystack-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is an in-memory gateway for dev mode and tests. Every
// initialized reference verifies as paid.
type NoopPaymentGateway struct {
	mu      sync.Mutex
	seq     int64
	intents map[string]adapter.InitializeRequest
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		intents: make(map[string]adapter.InitializeRequest),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) Initialize(ctx context.Context, req adapter.InitializeRequest) (*adapter.InitializeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.next()
	g.intents[req.Reference] = req
	return &adapter.InitializeResult{
		Status:           true,
		Message:          "Authorization URL created",
		AuthorizationURL: "https://example.test/pay/" + code,
		AccessCode:       code,
		Reference:        req.Reference,
	}, nil
}

func (g *NoopPaymentGateway) Verify(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	in, ok := g.intents[reference]
	if !ok {
		return &adapter.VerifyResult{Status: false, Message: "Transaction reference not found", Reference: reference}, nil
	}
	now := time.Now().UTC()
	return &adapter.VerifyResult{
		Status:        true,
		Message:       "Verification successful",
		TxStatus:      "success",
		TransactionID: "noop-" + reference,
		Reference:     reference,
		Amount:        in.Amount,
		Currency:      "NGN",
		PaidAt:        &now,
		Metadata:      in.Metadata,
	}, nil
}
