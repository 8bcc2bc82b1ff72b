package postgres

import (
	"context"
	"database/sql"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/errors"
)

type PostgresBaseRepo struct {
	db database.DB
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx, so repository methods
// can run inside a caller's transaction or against the pool.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// on returns the executor for tx, falling back to the pool when tx is nil.
func (r *PostgresBaseRepo) on(tx database.Transaction) execer {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

func (r *PostgresBaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *PostgresBaseRepo) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := r.db.GetDB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to execute query", err)
	}
	return result, nil
}

func (r *PostgresBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.GetDB().PingContext(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func (r *PostgresBaseRepo) Close() error {
	if err := r.db.GetDB().Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}
