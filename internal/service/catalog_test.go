package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsCaseInsensitive(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewIngredientCatalog(db)
	ctx := context.Background()

	first, err := catalog.Resolve(ctx, "Tomato")
	require.NoError(t, err)
	second, err := catalog.Resolve(ctx, "  tOMATO ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Tomato", second.Name)

	var n int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestResolveCollapsesWhitespace(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewIngredientCatalog(db)

	ing, err := catalog.Resolve(context.Background(), "olive   oil")
	require.NoError(t, err)
	assert.Equal(t, "olive oil", ing.Name)
	assert.Equal(t, "olive oil", ing.NameKey)
}

func TestResolveRejectsBlankName(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	_, err := service.NewIngredientCatalog(db).Resolve(context.Background(), "   ")
	assert.Error(t, err)
}

func TestResolveConcurrently(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewIngredientCatalog(db)

	names := []string{"Garlic", "garlic", "GARLIC", "Garlic ", "gArLiC"}
	ids := make(chan string, len(names))
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			ing, err := catalog.Resolve(context.Background(), name)
			if assert.NoError(t, err) {
				ids <- ing.ID.String()
			}
		}(name)
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)
}

func TestSuggest(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewIngredientCatalog(db)
	ctx := context.Background()
	for _, name := range []string{"Tomato", "Tofu", "Basil", "100% cocoa"} {
		_, err := catalog.Resolve(ctx, name)
		require.NoError(t, err)
	}

	got, err := catalog.Suggest(ctx, "TO", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tofu", got[0].Name)
	assert.Equal(t, "Tomato", got[1].Name)

	got, err = catalog.Suggest(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = catalog.Suggest(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = catalog.Suggest(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
