package adapter

import (
	"context"
	"encoding/json"
	"time"
)

// InitializeRequest is what the gateway needs to open a transaction.
type InitializeRequest struct {
	Email     string
	Amount    int64 // minor units
	Reference string
	Metadata  map[string]any
}

// InitializeResult mirrors the provider envelope. Status=false is a business
// failure; transport failures come back as errors instead.
type InitializeResult struct {
	Status           bool
	Message          string
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the provider's view of one transaction.
type VerifyResult struct {
	Status        bool   // envelope status
	Message       string // envelope message
	TxStatus      string // data.status, "success" when paid
	TransactionID string
	Reference     string
	Amount        int64 // minor units
	Currency      string
	PaidAt        *time.Time
	Metadata      map[string]any
	Raw           json.RawMessage // full payload for audit
}

// Succeeded reports whether both the call and the transaction succeeded.
func (r *VerifyResult) Succeeded() bool {
	return r != nil && r.Status && r.TxStatus == "success"
}

// PaymentGateway is the hex port for payment providers.
type PaymentGateway interface {
	Name() string
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// WebhookVerifier authenticates inbound gateway callbacks over the raw body.
type WebhookVerifier interface {
	Verify(body []byte, signature string) bool
}
