package repository

import (
	"context"

	"paystack-billing/internal/domain/model"
)

// UserRepository resolves the internal profile row behind an auth subject.
// Users are provisioned elsewhere; this service only reads them.
type UserRepository interface {
	// FindByAuthUserID returns domain.ErrNotFound when no row matches.
	FindByAuthUserID(ctx context.Context, tx Tx, authUserID string) (*model.User, error)
}
