package local

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/repo"
)

// ReferenceRepo keeps each reference list as its own JSON array of names.
type ReferenceRepo struct {
	store *Store
}

var _ repo.ReferenceRepo = (*ReferenceRepo)(nil)

// NewReferenceRepo returns a ReferenceRepo backed by s.
func NewReferenceRepo(s *Store) *ReferenceRepo {
	return &ReferenceRepo{store: s}
}

func keyFor(kind domain.ReferenceKind) (string, error) {
	switch kind {
	case domain.KindUsers:
		return KeyUsers, nil
	case domain.KindProducts:
		return KeyProducts, nil
	case domain.KindLocations:
		return KeyLocations, nil
	case domain.KindPurposes:
		return KeyPurposes, nil
	}
	return "", fmt.Errorf("unknown reference kind %q: %w", kind, domain.ErrValidation)
}

// List returns the items of kind in insertion order.
func (r *ReferenceRepo) List(ctx context.Context, kind domain.ReferenceKind) ([]string, error) {
	key, err := keyFor(kind)
	if err != nil {
		return nil, fmt.Errorf("local.ReferenceRepo.List: %w", err)
	}
	names := []string{}
	if _, err := r.store.Get(ctx, key, &names); err != nil {
		return nil, fmt.Errorf("local.ReferenceRepo.List: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Add appends name unless it is already present.
func (r *ReferenceRepo) Add(ctx context.Context, kind domain.ReferenceKind, name string) error {
	key, err := keyFor(kind)
	if err != nil {
		return fmt.Errorf("local.ReferenceRepo.Add: %w", err)
	}
	_, err = Update(ctx, r.store, key, func(cur []string) ([]string, error) {
		if slices.Contains(cur, name) {
			return nil, fmt.Errorf("%q: %w", name, domain.ErrDuplicate)
		}
		return append(cur, name), nil
	})
	if err != nil {
		return fmt.Errorf("local.ReferenceRepo.Add: %w", err)
	}
	return nil
}

// AddMany appends every name not yet present and returns those appended.
func (r *ReferenceRepo) AddMany(ctx context.Context, kind domain.ReferenceKind, names []string) ([]string, error) {
	key, err := keyFor(kind)
	if err != nil {
		return nil, fmt.Errorf("local.ReferenceRepo.AddMany: %w", err)
	}
	inserted := []string{}
	if len(names) == 0 {
		return inserted, nil
	}
	_, err = Update(ctx, r.store, key, func(cur []string) ([]string, error) {
		inserted = inserted[:0]
		for _, n := range names {
			if slices.Contains(cur, n) {
				continue
			}
			cur = append(cur, n)
			inserted = append(inserted, n)
		}
		return cur, nil
	})
	if err != nil {
		return nil, fmt.Errorf("local.ReferenceRepo.AddMany: %w", err)
	}
	return inserted, nil
}

// Replace overwrites the list with names, dropping repeated entries.
func (r *ReferenceRepo) Replace(ctx context.Context, kind domain.ReferenceKind, names []string) error {
	key, err := keyFor(kind)
	if err != nil {
		return fmt.Errorf("local.ReferenceRepo.Replace: %w", err)
	}
	next := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(next, n) {
			next = append(next, n)
		}
	}
	if err := r.store.Put(ctx, key, next); err != nil {
		return fmt.Errorf("local.ReferenceRepo.Replace: %w", err)
	}
	return nil
}

// Delete removes name from the list. Absent names are ignored.
func (r *ReferenceRepo) Delete(ctx context.Context, kind domain.ReferenceKind, name string) error {
	key, err := keyFor(kind)
	if err != nil {
		return fmt.Errorf("local.ReferenceRepo.Delete: %w", err)
	}
	_, err = Update(ctx, r.store, key, func(cur []string) ([]string, error) {
		out := slices.DeleteFunc(cur, func(s string) bool { return s == name })
		if out == nil {
			out = []string{}
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("local.ReferenceRepo.Delete: %w", err)
	}
	return nil
}
