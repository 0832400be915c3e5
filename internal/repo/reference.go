package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/product-registry/internal/domain"
)

// ReferenceRepo defines the persistence operations for the reference lists
// (users, products, locations, purposes). Each list has set semantics with
// exact, case-sensitive matching and keeps insertion order.
type ReferenceRepo interface {
	// List returns the items of kind in insertion order.
	List(ctx context.Context, kind domain.ReferenceKind) ([]string, error)

	// Add inserts one item. Returns domain.ErrDuplicate if it is already present.
	Add(ctx context.Context, kind domain.ReferenceKind, name string) error

	// AddMany inserts every item not already present and returns the ones
	// actually inserted, in input order.
	AddMany(ctx context.Context, kind domain.ReferenceKind, names []string) ([]string, error)

	// Replace overwrites the whole list with names.
	Replace(ctx context.Context, kind domain.ReferenceKind, names []string) error

	// Delete removes one item. Removing an absent item is a no-op.
	Delete(ctx context.Context, kind domain.ReferenceKind, name string) error
}

// pgReferenceRepo is the Postgres implementation of ReferenceRepo.
// Every item is one row of reference_items keyed by (kind, name).
type pgReferenceRepo struct {
	db db
}

// NewReferenceRepo constructs a ReferenceRepo backed by the provided db connection.
func NewReferenceRepo(db db) ReferenceRepo {
	return &pgReferenceRepo{db: db}
}

// List returns the items of kind ordered by insertion sequence.
func (r *pgReferenceRepo) List(ctx context.Context, kind domain.ReferenceKind) ([]string, error) {
	q, args, err := psql.Select("name").
		From("reference_items").
		Where(sq.Eq{"kind": string(kind)}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.ReferenceRepo.List: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classify("repo.ReferenceRepo.List", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, classify("repo.ReferenceRepo.List: rows", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Add inserts one item. ON CONFLICT DO NOTHING leaves RowsAffected at zero
// for duplicates, which is reported as domain.ErrDuplicate.
func (r *pgReferenceRepo) Add(ctx context.Context, kind domain.ReferenceKind, name string) error {
	q, args, err := psql.Insert("reference_items").
		Columns("kind", "name").
		Values(string(kind), name).
		Suffix("ON CONFLICT (kind, name) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("repo.ReferenceRepo.Add: build: %w", err)
	}

	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return classify("repo.ReferenceRepo.Add", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReferenceRepo.Add: %q: %w", name, domain.ErrDuplicate)
	}
	return nil
}

// AddMany inserts names in a single multi-row statement and returns the
// names Postgres reports as inserted.
func (r *pgReferenceRepo) AddMany(ctx context.Context, kind domain.ReferenceKind, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	b := psql.Insert("reference_items").Columns("kind", "name")
	for _, n := range names {
		b = b.Values(string(kind), n)
	}
	q, args, err := b.Suffix("ON CONFLICT (kind, name) DO NOTHING RETURNING name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.ReferenceRepo.AddMany: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classify("repo.ReferenceRepo.AddMany", err)
	}
	inserted, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, classify("repo.ReferenceRepo.AddMany: rows", err)
	}

	// RETURNING order is not guaranteed; report in input order.
	got := make(map[string]bool, len(inserted))
	for _, n := range inserted {
		got[n] = true
	}
	out := make([]string, 0, len(inserted))
	for _, n := range names {
		if got[n] {
			out = append(out, n)
			delete(got, n)
		}
	}
	return out, nil
}

// Replace deletes every item of kind and inserts names in one transaction.
func (r *pgReferenceRepo) Replace(ctx context.Context, kind domain.ReferenceKind, names []string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		del, args, err := psql.Delete("reference_items").Where(sq.Eq{"kind": string(kind)}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, del, args...); err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		ins := psql.Insert("reference_items").Columns("kind", "name")
		for _, n := range names {
			ins = ins.Values(string(kind), n)
		}
		q, args, err := ins.Suffix("ON CONFLICT (kind, name) DO NOTHING").ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, q, args...)
		return err
	})
	if err != nil {
		return classify("repo.ReferenceRepo.Replace", err)
	}
	return nil
}

// Delete removes one item; zero affected rows is not an error.
func (r *pgReferenceRepo) Delete(ctx context.Context, kind domain.ReferenceKind, name string) error {
	q, args, err := psql.Delete("reference_items").
		Where(sq.Eq{"kind": string(kind), "name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("repo.ReferenceRepo.Delete: build: %w", err)
	}
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return classify("repo.ReferenceRepo.Delete", err)
	}
	return nil
}
