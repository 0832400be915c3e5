package local

import (
	"context"
	"fmt"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/repo"
)

// RegistrationRepo keeps all registrations as one JSON array, newest first.
type RegistrationRepo struct {
	store *Store
}

var _ repo.RegistrationRepo = (*RegistrationRepo)(nil)

// NewRegistrationRepo returns a RegistrationRepo backed by s.
func NewRegistrationRepo(s *Store) *RegistrationRepo {
	return &RegistrationRepo{store: s}
}

// Create prepends reg to the stored list.
func (r *RegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	_, err := Update(ctx, r.store, KeyRegistrations, func(cur []domain.Registration) ([]domain.Registration, error) {
		for _, existing := range cur {
			if existing.ID == reg.ID {
				return nil, fmt.Errorf("registration %s: %w", reg.ID, domain.ErrDuplicate)
			}
		}
		next := make([]domain.Registration, 0, len(cur)+1)
		next = append(next, reg)
		return append(next, cur...), nil
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("local.RegistrationRepo.Create: %w", err)
	}
	return reg, nil
}

// List returns the stored registrations, newest first.
func (r *RegistrationRepo) List(ctx context.Context) ([]domain.Registration, error) {
	regs := []domain.Registration{}
	if _, err := r.store.Get(ctx, KeyRegistrations, &regs); err != nil {
		return nil, fmt.Errorf("local.RegistrationRepo.List: %w", err)
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	return regs, nil
}
