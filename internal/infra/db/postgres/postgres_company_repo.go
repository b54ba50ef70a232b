package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"paystack-billing/internal/domain/ports/repository"
)

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct{ pool *pgxpool.Pool }

func NewCompanyRepo(pool *pgxpool.Pool) *companyRepo {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) RefreshSubscriptionStatus(ctx context.Context, tx repository.Tx, companyID string) error {
	_, err := execSQL(ctx, r.pool, tx, `SELECT refresh_company_subscription_status($1::uuid);`, companyID)
	return writeErr(err)
}
