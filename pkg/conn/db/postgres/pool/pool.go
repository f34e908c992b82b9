package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// something begins SQL Transaction.
type Begin interface {
	Begin(ctx context.Context) (Tx, error)
}

// something sending query with SQL.
//
// this is extracted interface from `pgxpool.Pool` and `pgx.Tx`.
// Stores take Queryer to run on the pool or in a transaction alike.
type Queryer interface {
	// sending SQL Command which does not have any result rows.
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)

	// sending SQL Command which has result rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)

	// sending SQL Command which has just single result row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// subset of `pgx.Tx`.
//
// Nested Begin makes a savepoint.
type Tx interface {
	Queryer
	Begin

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// subset of `*pgxpool.Pool`.
type Pool interface {
	Begin
	Queryer

	Ping(ctx context.Context) error
	Close()
}

// pgx.Tx does not implement Tx by itself, since its Begin returns pgx.Tx.
type pgxTx struct {
	pgx.Tx
}

func (tx pgxTx) Begin(ctx context.Context) (Tx, error) {
	nested, err := tx.Tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{nested}, nil
}

type pgxPool struct {
	*pgxpool.Pool
}

func (p pgxPool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{tx}, nil
}

var (
	_ Tx   = pgxTx{}
	_ Pool = pgxPool{}
)

func Wrap(p *pgxpool.Pool) Pool {
	return pgxPool{p}
}
