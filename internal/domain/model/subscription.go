package model

import (
	"time"

	"paystack-billing/internal/domain"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a company's entitlement to a plan over [StartsAt, EndsAt).
type Subscription struct {
	ID        string
	CompanyID string
	PlanName  string
	Status    SubscriptionStatus
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}

// NewSubscription creates an active subscription starting at paidAt and
// lasting the plan's validity period.
func NewSubscription(companyID, planName string, paidAt time.Time) (*Subscription, error) {
	if planName == "" || paidAt.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	days := ValidityDays(planName)
	return &Subscription{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		PlanName:  planName,
		Status:    SubscriptionStatusActive,
		StartsAt:  paidAt,
		EndsAt:    paidAt.Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt: time.Now(),
	}, nil
}
