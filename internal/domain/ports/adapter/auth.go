package adapter

import (
	"context"

	"paystack-billing/internal/domain/model"
)

// IdentityResolver turns a bearer token into a caller identity. Any failure
// is reported as domain.ErrUnauthorized.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}
