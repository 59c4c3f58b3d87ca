package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/db"
)

// FailingUoW runs transactions like db.SQLiteUnitOfWork but fails the
// FailOn-th write (counting from 1) with Err. Reads are never counted.
// Use it to check that multi-write use cases leave nothing behind.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	// Writes is the number of ExecContext calls seen by the last transaction.
	Writes int
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	w := &countingTx{DBTX: tx, failOn: u.FailOn, err: u.Err}
	fnErr := fn(ctx, w)
	u.Writes = w.writes
	if fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type countingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.writes++
	if c.writes == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
