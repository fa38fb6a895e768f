package repositories_test

import (
	"context"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProductRepository_Lifecycle(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	ctx := context.Background()

	p := newProduct("Zip Hoodie", "z1.jpg", "z2.jpg")
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, newProduct("zip hoodie")), repositories.ErrDuplicateProduct)

	found, err := repo.FindByNaturalKey(ctx, "ZIP_HOODIE")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	images := []string{"z3.jpg"}
	_, err = repo.Update(ctx, p.ID, models.UpdateProductInput{Images: &images})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.ImageCount())

	affected, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Zero(t, repo.ImageCount())

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestInMemoryProductRepository_UpdateDuplicateSlugLeavesProductIntact(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	ctx := context.Background()

	a := newProduct("First")
	b := newProduct("Second", "s.jpg")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	slug := "first"
	images := []string{"x.jpg"}
	_, err := repo.Update(ctx, b.ID, models.UpdateProductInput{Slug: &slug, Images: &images})
	assert.ErrorIs(t, err, repositories.ErrDuplicateProduct)

	found, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Slug)
	assert.Equal(t, []string{"s.jpg"}, found.Plain().Images)
}

func TestInMemoryProductRepository_FindAllPages(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, newProduct(title)))
	}

	page, err := repo.FindAll(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "C", page[0].Title)

	affected, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
}
