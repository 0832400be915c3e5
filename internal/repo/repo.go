// Package repo contains the remote-store access logic: Postgres repositories
// for registrations, reference lists and product categories.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL, type mapping and error classification.
package repo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/product-registry/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock pools. Accepting this interface instead of *pgxpool.Pool allows
// integration tests to pass a transaction that is rolled back after each test,
// and unit tests to pass a pgxmock pool.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// psql builds Postgres-flavoured ($1, $2, ...) statements.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// classify converts a pgx/pgconn error into a domain error.
//   - pgx.ErrNoRows becomes domain.ErrNotFound.
//   - unique violations become domain.ErrDuplicate.
//   - missing relations or schemas become a KindNotFound StoreError.
//   - connection failures become a KindTransient StoreError.
//   - everything else becomes a KindUnknown StoreError.
//
// context.Canceled passes through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		case pgErr.Code == "42P01", // undefined_table
			pgErr.Code == "3F000", // invalid_schema_name
			pgErr.Code == "3D000": // invalid_catalog_name
			return domain.NewStoreError(domain.KindNotFound, op, err)
		case strings.HasPrefix(pgErr.Code, "08"), // connection_exception class
			pgErr.Code == "57P01", // admin_shutdown
			pgErr.Code == "57P03": // cannot_connect_now
			return domain.NewStoreError(domain.KindTransient, op, err)
		}
		return domain.NewStoreError(domain.KindUnknown, op, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err) {
		return domain.NewStoreError(domain.KindTransient, op, err)
	}
	return domain.NewStoreError(domain.KindUnknown, op, err)
}
