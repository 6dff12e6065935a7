// package repositories provides the persistence layer for playlist entries.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/babytube/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// querier is the subset of [sql.DB] the repositories use, so tests can swap in sqlmock.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// wrapStorageErr classifies a driver error: CHECK/NOT NULL violations become [shared.ErrConstraint],
// everything else [shared.ErrStorage]. The driver error is kept in the chain.
func wrapStorageErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s: %w", shared.ErrConstraint, op, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrStorage, op, err)
}
