package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ride-booking/internal/ports"
)

// ctxKey is an unexported key type for storing pgx.Tx in context.
type ctxKey struct{}

var txKey = ctxKey{}

// unitOfWork coordinates transactional execution against a pgx pool. The
// booking executor runs its whole read-check-write sequence inside a single
// WithinTx call, so every repository write shares one transaction and a
// failure anywhere rolls back everything.
type unitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork constructs a unitOfWork bound to the given pool.
func NewUnitOfWork(pool *pgxpool.Pool) ports.UnitOfWork {
	return &unitOfWork{pool: pool}
}

// WithinTx executes fn within a database transaction.
//   - If a transaction already exists in ctx, fn runs within it (nesting).
//   - If fn returns an error or panics, the transaction is rolled back
//     (the panic is rethrown).
//   - On success, the transaction is committed.
//
// The connection backing the transaction is owned by this call and returned
// to the pool on every exit path.
func (uow *unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := uow.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// TxFromContext extracts the current pgx.Tx from ctx if present.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// MustTxFromContext returns the active pgx.Tx or an error if none is found.
// Repository methods that mutate state must be called within WithinTx.
func MustTxFromContext(ctx context.Context) (pgx.Tx, error) {
	if tx, ok := TxFromContext(ctx); ok {
		return tx, nil
	}
	return nil, errors.New("no transaction in context: call this repository within UnitOfWork.WithinTx")
}
