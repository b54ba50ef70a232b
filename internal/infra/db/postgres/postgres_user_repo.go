package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// FindByAuthUserID returns domain.ErrNotFound for unknown or malformed ids.
func (r *PostgresUserRepo) FindByAuthUserID(ctx context.Context, tx repository.Tx, authUserID string) (*model.User, error) {
	if _, err := uuid.Parse(authUserID); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT id::text, auth_user_id::text, COALESCE(company_id::text, ''), COALESCE(email, '')
  FROM users WHERE auth_user_id = $1::uuid
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, authUserID)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := row.Scan(&u.ID, &u.AuthUserID, &u.CompanyID, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Join(domain.ErrReadDatabaseRow, err)
	}
	return &u, nil
}
