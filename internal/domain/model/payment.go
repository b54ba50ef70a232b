package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
)

const ProviderPaystack = "paystack"

// Payment is the append-only money record written once per successful
// verification.
type Payment struct {
	ID                    string
	CompanyID             string
	SubscriptionID        string
	Amount                decimal.Decimal // major units
	Currency              string
	Provider              string // "paystack"
	ProviderReference     string
	ProviderTransactionID string
	Status                PaymentStatus
	PaidAt                time.Time
	RawResponse           json.RawMessage // full gateway payload, kept for audit
	CreatedAt             time.Time
}
