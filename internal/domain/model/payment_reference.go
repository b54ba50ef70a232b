package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReferenceStatus string

const (
	ReferenceStatusPending ReferenceStatus = "pending" // initialized, awaiting payment
	ReferenceStatusSuccess ReferenceStatus = "success" // verified at the gateway
)

// ReferenceIDLength is the number of hex characters after the prefix.
const ReferenceIDLength = 20

// PaymentReference correlates one gateway transaction across the
// initialize, verify and webhook flows.
type PaymentReference struct {
	ID               string
	Reference        string // unique, prefix + 20 hex chars
	CompanyID        string // empty when the caller has no user row
	AccessCode       string
	AuthorizationURL string
	Status           ReferenceStatus
	Amount           decimal.Decimal // major units
	Currency         string
	SubscriptionID   *string    // set on verification
	VerifiedAt       *time.Time // set on verification
	CreatedAt        time.Time
}

// NewReference returns prefix followed by 20 random hex characters.
func NewReference(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:ReferenceIDLength]
}
