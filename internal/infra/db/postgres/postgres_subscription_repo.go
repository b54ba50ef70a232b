package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id::text, COALESCE(company_id::text, ''), plan_name, status, starts_at, ends_at, created_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, company_id, plan_name, status, starts_at, ends_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status, ends_at = EXCLUDED.ends_at;`
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, nullable(s.CompanyID), s.PlanName, string(s.Status), s.StartsAt, s.EndsAt, s.CreatedAt)
	return writeErr(err)
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1::uuid`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	s, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

func (r *subscriptionRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE company_id = $1::uuid ORDER BY starts_at DESC`
	rows, err := queryRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, writeErr(err)
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var (
		s      model.Subscription
		status string
	)
	if err := row.Scan(&s.ID, &s.CompanyID, &s.PlanName, &status, &s.StartsAt, &s.EndsAt, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrReadDatabaseRow, err)
	}
	s.Status = model.SubscriptionStatus(status)
	return &s, nil
}
