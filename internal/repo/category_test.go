package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/domain"
)

func categoryFixture() domain.ProductCategory {
	return domain.ProductCategory{
		Name:        "Power tools",
		Description: "Anything with a battery",
		Color:       "#3b82f6",
	}
}

func TestProductCategoryRepo_CreateAndGet(t *testing.T) {
	_, _, r := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, categoryFixture())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, "Anything with a battery", got.Description)
}

func TestProductCategoryRepo_GetByID_NotFound(t *testing.T) {
	_, _, r := newTestRepos(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCategoryRepo_Update(t *testing.T) {
	_, _, r := newTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, categoryFixture())
	require.NoError(t, err)

	created.Name = "Hand tools"
	created.Color = "#10b981"
	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Hand tools", updated.Name)
	assert.Equal(t, "#10b981", updated.Color)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestProductCategoryRepo_Update_NotFound(t *testing.T) {
	_, _, r := newTestRepos(t)

	c := categoryFixture()
	c.ID = uuid.New()
	_, err := r.Update(context.Background(), c)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCategoryRepo_ListAndDelete(t *testing.T) {
	_, _, r := newTestRepos(t)
	ctx := context.Background()

	a, err := r.Create(ctx, categoryFixture())
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, a.ID), domain.ErrNotFound)
}
