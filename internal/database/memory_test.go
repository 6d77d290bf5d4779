package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpcatalog/registry/internal/database"
	"github.com/mcpcatalog/registry/pkg/model"
)

func TestMemoryDBUpsertReplacesBySlug(t *testing.T) {
	db := database.NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{
		{Slug: "alpha", Name: "Alpha", RepoStars: 1},
	}))
	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{
		{Slug: "alpha", Name: "Alpha", RepoStars: 99, Description: "refreshed"},
	}))

	rec, err := db.GetBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 99, rec.RepoStars)
	assert.Equal(t, "refreshed", rec.Description)

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1, "upsert must not duplicate the row")
}

func TestMemoryDBUpsertKeepsAbsentRecords(t *testing.T) {
	db := database.NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{
		{Slug: "alpha"}, {Slug: "beta"},
	}))

	// A later run that no longer carries beta must not delete it.
	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{{Slug: "alpha"}}))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryDBListDisplayOrder(t *testing.T) {
	db := database.NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{
		{Slug: "plain-popular", RepoStars: 500},
		{Slug: "verified", IsVerified: true, RepoStars: 3},
		{Slug: "featured", IsFeatured: true, IsVerified: true, RepoStars: 1},
		{Slug: "plain-quiet", RepoStars: 2},
	}))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)

	slugs := make([]string, 0, len(records))
	for _, rec := range records {
		slugs = append(slugs, rec.Slug)
	}
	assert.Equal(t, []string{"featured", "verified", "plain-popular", "plain-quiet"}, slugs)
}

func TestMemoryDBGetBySlugNotFound(t *testing.T) {
	db := database.NewMemoryDB()

	_, err := db.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.True(t, database.IsNotFound(err))
}

func TestMemoryDBGetReturnsCopy(t *testing.T) {
	db := database.NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, []model.CatalogRecord{{Slug: "alpha", Name: "Alpha"}}))

	rec, err := db.GetBySlug(ctx, "alpha")
	require.NoError(t, err)
	rec.Name = "Mutated"

	fresh, err := db.GetBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", fresh.Name)
}
