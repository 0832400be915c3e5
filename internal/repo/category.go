package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/product-registry/internal/domain"
)

// ProductCategoryRepo defines the persistence operations for ProductCategories.
// Categories exist only in the remote store; there is no local fallback.
type ProductCategoryRepo interface {
	// Create inserts a new category and returns the persisted record
	// (with DB-generated id, created_at and updated_at populated).
	Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)

	// GetByID retrieves a single category.
	// Returns domain.ErrNotFound if no category with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.ProductCategory, error)

	// Update overwrites the mutable fields of a category.
	// Returns domain.ErrNotFound if no category with that ID exists.
	Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)

	// Delete removes a category. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgProductCategoryRepo is the Postgres implementation of ProductCategoryRepo.
type pgProductCategoryRepo struct {
	db db
}

// NewProductCategoryRepo constructs a ProductCategoryRepo backed by the provided db connection.
func NewProductCategoryRepo(db db) ProductCategoryRepo {
	return &pgProductCategoryRepo{db: db}
}

var categoryColumns = []string{"id::text", "name", "description", "color", "created_at", "updated_at"}

// Create inserts a new category row.
func (r *pgProductCategoryRepo) Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	q, args, err := psql.Insert("product_categories").
		Columns("name", "description", "color").
		Values(c.Name, c.Description, c.Color).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("repo.ProductCategoryRepo.Create: build: %w", err)
	}

	result, err := scanCategory(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.ProductCategory{}, classify("repo.ProductCategoryRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves a category by primary key.
func (r *pgProductCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error) {
	q, args, err := psql.Select(categoryColumns...).
		From("product_categories").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("repo.ProductCategoryRepo.GetByID: build: %w", err)
	}

	result, err := scanCategory(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.ProductCategory{}, classify("repo.ProductCategoryRepo.GetByID", err)
	}
	return result, nil
}

// List returns all categories ordered by name.
func (r *pgProductCategoryRepo) List(ctx context.Context) ([]domain.ProductCategory, error) {
	q, args, err := psql.Select(categoryColumns...).
		From("product_categories").
		OrderBy("name", "created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.ProductCategoryRepo.List: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classify("repo.ProductCategoryRepo.List", err)
	}
	defer rows.Close()

	cats := []domain.ProductCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify("repo.ProductCategoryRepo.List: scan", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.ProductCategoryRepo.List: rows", err)
	}
	return cats, nil
}

// Update overwrites name, description and color and bumps updated_at.
func (r *pgProductCategoryRepo) Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	q, args, err := psql.Update("product_categories").
		SetMap(map[string]any{
			"name":        c.Name,
			"description": c.Description,
			"color":       c.Color,
			"updated_at":  sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID.String()}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("repo.ProductCategoryRepo.Update: build: %w", err)
	}

	result, err := scanCategory(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.ProductCategory{}, classify("repo.ProductCategoryRepo.Update", err)
	}
	return result, nil
}

// Delete removes a category by primary key.
func (r *pgProductCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM product_categories WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id.String()})
	if err != nil {
		return classify("repo.ProductCategoryRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ProductCategoryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func joinColumns() string {
	out := categoryColumns[0]
	for _, c := range categoryColumns[1:] {
		out += ", " + c
	}
	return out
}

// scanCategory maps a single database row into a domain.ProductCategory.
func scanCategory(s scanner) (domain.ProductCategory, error) {
	var (
		c     domain.ProductCategory
		rawID string
	)
	if err := s.Scan(&rawID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.ProductCategory{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.ProductCategory{}, fmt.Errorf("parse id %q: %w", rawID, err)
	}
	c.ID = id
	return c, nil
}
