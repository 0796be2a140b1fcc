package persistence

import (
	"context"
	"testing"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, repo *GormItemRepository, description string) *billing.Item {
	t.Helper()
	item, err := billing.NewItem(description, "", "", d("0"))
	require.NoError(t, err)
	require.NoError(t, repo.InsertBatch(context.Background(), []*billing.Item{item}))
	return item
}

func TestGormItemRepository_FindByKey(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	seedItem(t, repo, "Steel Pipe")

	t.Run("matches regardless of casing and whitespace", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, "  STEEL pipe ")
		require.NoError(t, err)
		assert.Equal(t, "Steel Pipe", found.Description)
	})

	t.Run("misses on unknown key", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, "Copper Wire")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_SearchByDescription(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	for _, desc := range []string{"Steel Pipe", "Steel Rod", "Copper Wire"} {
		seedItem(t, repo, desc)
	}

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		results, err := repo.SearchByDescription(ctx, "steel", 10)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("respects the limit", func(t *testing.T) {
		results, err := repo.SearchByDescription(ctx, "steel", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestGormItemRepository_Listing(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	seedItem(t, repo, "Washer")
	seedItem(t, repo, "Bolt")

	t.Run("ListAll orders by description", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Bolt", all[0].Description)
		assert.Equal(t, "Washer", all[1].Description)
	})

	t.Run("ListDescriptions returns every stored description", func(t *testing.T) {
		descriptions, err := repo.ListDescriptions(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Bolt", "Washer"}, descriptions)
	})
}

func TestGormItemRepository_InsertBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back the whole batch on a duplicate", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		repo := NewGormItemRepository(db)
		seedItem(t, repo, "Taken")

		fresh, err := billing.NewItem("Fresh", "", "", d("1"))
		require.NoError(t, err)
		dup, err := billing.NewItem("Taken", "", "", d("1"))
		require.NoError(t, err)

		err = repo.InsertBatch(ctx, []*billing.Item{fresh, dup})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUniquenessConflict)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("the unique index rejects a case variant of a stored description", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		repo := NewGormItemRepository(db)
		seedItem(t, repo, "MS Pipe")

		variant, err := billing.NewItem("ms pipe", "", "", d("1"))
		require.NoError(t, err)

		err = repo.InsertBatch(ctx, []*billing.Item{variant})
		assert.ErrorIs(t, err, shared.ErrUniquenessConflict)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "MS Pipe", all[0].Description)
	})
}
