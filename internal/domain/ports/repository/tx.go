package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside one database transaction and passes the
// transaction handle to it as tx. Repositories accept that handle (or nil
// for the pool) so a use case can group several writes atomically without
// transaction types leaking into its interface.
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//		if err := subs.Save(ctx, tx, sub); err != nil {
//			return err
//		}
//		return payments.Save(ctx, tx, p)
//	})
//
// Repositories MUST accept a nil tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
