package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxMode selects the access mode of a transaction.
type TxMode int

const (
	ReadWrite TxMode = iota
	ReadOnly
)

func (m TxMode) String() string {
	if m == ReadOnly {
		return "read-only"
	}
	return "read-write"
}

// Transactor runs fn inside exactly one transaction and hands it a repository
// bound to that transaction. The transaction commits when fn returns nil and
// rolls back on error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, mode TxMode, fn func(repo DepartmentRepository) error) error
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PgTransactor opens pgx transactions on a pool.
type PgTransactor struct {
	db TxBeginner
}

var _ Transactor = (*PgTransactor)(nil)

// NewPgTransactor builds a transactor over the given pool.
func NewPgTransactor(db TxBeginner) *PgTransactor {
	return &PgTransactor{db: db}
}

func (t *PgTransactor) WithinTx(ctx context.Context, mode TxMode, fn func(repo DepartmentRepository) error) (err error) {
	opts := pgx.TxOptions{AccessMode: pgx.ReadWrite}
	if mode == ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", mode, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit transaction: %w", commitErr)
		}
	}()

	return fn(NewDepartmentRepository(tx))
}
