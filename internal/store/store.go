// Package store persists bills in PostgreSQL. It owns the typed conversion
// boundary between the string-valued records the review grid works with and
// the dated/numeric columns of the bills table; conversion failures are
// reported per row in the same shape the grid uses for validation issues.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Store provides bill persistence and aggregate queries.
type Store struct {
	db DBTX
}

// New creates a Store backed by the given database handle.
func New(db DBTX) *Store {
	return &Store{db: db}
}
