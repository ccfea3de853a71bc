package db

import (
	"context"
	"database/sql"
)

// DBTX is the subset of [sql.DB] and [sql.Tx] the queries run against.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New returns a Queries bound to the given handle.
func New(dbtx DBTX) *Queries {
	return &Queries{db: dbtx}
}

// Queries holds the prepared query methods for the schema.
type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to tx, so a caller can group statements into
// a single transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
