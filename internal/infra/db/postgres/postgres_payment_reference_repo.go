package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
)

var _ repository.PaymentReferenceRepository = (*paymentReferenceRepo)(nil)

type paymentReferenceRepo struct{ pool *pgxpool.Pool }

func NewPaymentReferenceRepo(pool *pgxpool.Pool) *paymentReferenceRepo {
	return &paymentReferenceRepo{pool: pool}
}

const paymentReferenceColumns = `id::text, reference, COALESCE(company_id::text, ''), COALESCE(access_code, ''),
       COALESCE(authorization_url, ''), status, amount::text, currency,
       subscription_id::text, verified_at, created_at`

func (r *paymentReferenceRepo) Save(ctx context.Context, tx repository.Tx, ref *model.PaymentReference) error {
	const q = `
INSERT INTO paystack_payment_references (
  id, reference, company_id, access_code, authorization_url, status, amount, currency, created_at
) VALUES (
  $1, $2, $3, $4, $5, $6, $7::numeric, $8, $9
);`
	createdAt := ref.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		ref.ID, ref.Reference, nullable(ref.CompanyID), ref.AccessCode, ref.AuthorizationURL,
		string(ref.Status), ref.Amount.String(), ref.Currency, createdAt)
	return writeErr(err)
}

func (r *paymentReferenceRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentReference, error) {
	q := `SELECT ` + paymentReferenceColumns + ` FROM paystack_payment_references WHERE reference = $1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, err
	}
	ref, err := scanPaymentReference(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ref, err
}

func (r *paymentReferenceRepo) MarkVerified(ctx context.Context, tx repository.Tx, reference, subscriptionID string, verifiedAt time.Time) error {
	// A reference that was never recorded here is left alone.
	const q = `
UPDATE paystack_payment_references
   SET status = 'success', subscription_id = $2, verified_at = $3
 WHERE reference = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, reference, nullable(subscriptionID), verifiedAt)
	return writeErr(err)
}

func (r *paymentReferenceRepo) ListPendingBetween(ctx context.Context, tx repository.Tx, createdAfter, createdBefore time.Time, limit int) ([]*model.PaymentReference, error) {
	if limit <= 0 {
		limit = 100
	}
	var lower interface{}
	if !createdAfter.IsZero() {
		lower = createdAfter
	}
	q := `SELECT ` + paymentReferenceColumns + `
  FROM paystack_payment_references
 WHERE status = 'pending'
   AND created_at < $1
   AND ($2::timestamptz IS NULL OR created_at >= $2::timestamptz)
 ORDER BY created_at DESC
 LIMIT $3`
	rows, err := queryRows(ctx, r.pool, tx, q, createdBefore, lower, limit)
	if err != nil {
		return nil, writeErr(err)
	}
	defer rows.Close()

	var out []*model.PaymentReference
	for rows.Next() {
		ref, err := scanPaymentReference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func scanPaymentReference(row pgx.Row) (*model.PaymentReference, error) {
	var (
		ref    model.PaymentReference
		status string
		amount string
	)
	if err := row.Scan(&ref.ID, &ref.Reference, &ref.CompanyID, &ref.AccessCode, &ref.AuthorizationURL,
		&status, &amount, &ref.Currency, &ref.SubscriptionID, &ref.VerifiedAt, &ref.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrReadDatabaseRow, err)
	}
	ref.Status = model.ReferenceStatus(status)
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.Join(domain.ErrReadDatabaseRow, err)
	}
	ref.Amount = dec
	return &ref, nil
}
