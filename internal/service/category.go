package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/product-registry/internal/domain"
)

// ProductCategoryService implements business logic for product categories.
// Categories live only in the remote store; when it is not ready every
// operation fails with the handle's StoreError.
type ProductCategoryService struct {
	store CategoryStore
}

// NewProductCategoryService constructs a ProductCategoryService.
func NewProductCategoryService(store CategoryStore) *ProductCategoryService {
	return &ProductCategoryService{store: store}
}

// Create validates and persists a new category.
func (s *ProductCategoryService) Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	c, err := normalizeCategory(c)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Create: %w", err)
	}
	r, err := s.store.Categories(ctx)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Create: %w", err)
	}
	created, err := r.Create(ctx, c)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single category.
func (s *ProductCategoryService) GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error) {
	r, err := s.store.Categories(ctx)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.GetByID: %w", err)
	}
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.GetByID: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by name.
func (s *ProductCategoryService) List(ctx context.Context) ([]domain.ProductCategory, error) {
	r, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ProductCategoryService.List: %w", err)
	}
	cats, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ProductCategoryService.List: %w", err)
	}
	if cats == nil {
		cats = []domain.ProductCategory{}
	}
	return cats, nil
}

// Update validates and overwrites an existing category.
func (s *ProductCategoryService) Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	c, err := normalizeCategory(c)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Update: %w", err)
	}
	r, err := s.store.Categories(ctx)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Update: %w", err)
	}
	updated, err := r.Update(ctx, c)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("service.ProductCategoryService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a category by ID.
func (s *ProductCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("service.ProductCategoryService.Delete: %w", err)
	}
	if err := r.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ProductCategoryService.Delete: %w", err)
	}
	return nil
}

// normalizeCategory trims text fields, defaults the colour to the first
// palette entry and rejects colours outside the palette.
func normalizeCategory(c domain.ProductCategory) (domain.ProductCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))

	if c.Name == "" {
		return c, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if c.Color == "" {
		c.Color = domain.CategoryPalette[0]
	}
	if !domain.IsPaletteColor(c.Color) {
		return c, fmt.Errorf("%w: color %q is not in the palette", domain.ErrValidation, c.Color)
	}
	return c, nil
}
