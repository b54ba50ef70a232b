package repository

import (
	"context"

	"paystack-billing/internal/domain/model"
)

// SubscriptionRepository is the port for company subscriptions.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error

	// Read side for audits and support tooling; the payment flow only writes.
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Subscription, error)
}

// CompanyRepository maintains the denormalized company projection.
type CompanyRepository interface {
	// RefreshSubscriptionStatus calls refresh_company_subscription_status.
	RefreshSubscriptionStatus(ctx context.Context, tx Tx, companyID string) error
}
