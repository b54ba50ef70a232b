package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, company_id, subscription_id, amount, currency, payment_provider, paystack_reference,
  paystack_transaction_id, status, paid_at, raw_response, created_at
) VALUES (
  $1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11::jsonb, $12
);`
	var raw interface{}
	if len(p.RawResponse) > 0 {
		raw = string(p.RawResponse)
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, nullable(p.CompanyID), nullable(p.SubscriptionID), p.Amount.String(), p.Currency, p.Provider,
		p.ProviderReference, p.ProviderTransactionID, string(p.Status), p.PaidAt, raw, p.CreatedAt)
	return writeErr(err)
}

func (r *paymentRepo) ListByProviderReference(ctx context.Context, tx repository.Tx, reference string) ([]*model.Payment, error) {
	const q = `
SELECT id::text, COALESCE(company_id::text, ''), COALESCE(subscription_id::text, ''), amount::text, currency,
       payment_provider, paystack_reference, COALESCE(paystack_transaction_id, ''), status, paid_at,
       COALESCE(raw_response::text, ''), created_at
  FROM payments
 WHERE paystack_reference = $1
 ORDER BY created_at;`
	rows, err := queryRows(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, writeErr(err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		var (
			p      model.Payment
			amount string
			status string
			raw    string
		)
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SubscriptionID, &amount, &p.Currency, &p.Provider,
			&p.ProviderReference, &p.ProviderTransactionID, &status, &p.PaidAt, &raw, &p.CreatedAt); err != nil {
			return nil, errors.Join(domain.ErrReadDatabaseRow, err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, errors.Join(domain.ErrReadDatabaseRow, err)
		}
		p.Status = model.PaymentStatus(status)
		if raw != "" {
			p.RawResponse = []byte(raw)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
