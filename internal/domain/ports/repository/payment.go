package repository

import (
	"context"
	"time"

	"paystack-billing/internal/domain/model"
)

// -----------------------------
// Payment references
// -----------------------------

type PaymentReferenceRepository interface {
	Save(ctx context.Context, tx Tx, ref *model.PaymentReference) error
	// FindByReference returns domain.ErrNotFound when no row matches.
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.PaymentReference, error)
	// MarkVerified moves the row to success and links the subscription.
	MarkVerified(ctx context.Context, tx Tx, reference, subscriptionID string, verifiedAt time.Time) error
	// ListPendingBetween returns pending rows with createdAfter <= created_at
	// < createdBefore, newest first. A zero createdAfter means no lower bound.
	ListPendingBetween(ctx context.Context, tx Tx, createdAfter, createdBefore time.Time, limit int) ([]*model.PaymentReference, error)
}

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	// ListByProviderReference is an audit read: every payment row recorded
	// for one Paystack reference, oldest first.
	ListByProviderReference(ctx context.Context, tx Tx, reference string) ([]*model.Payment, error)
}
