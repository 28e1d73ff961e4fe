package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	pkgdb "github.com/Skotchmaster/foodhub/pkg/db"
)

func TestSearchService_DBIndex(t *testing.T) {
	ctx := context.Background()
	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	rest := &models.Restaurant{OwnerID: "o1", Name: "Spice", IsOpen: true}
	require.NoError(t, r.SaveRestaurant(ctx, rest))
	for _, name := range []string{"Paneer Tikka", "Chicken Tikka", "Naan"} {
		require.NoError(t, r.CreateMenuItem(ctx, &models.MenuItem{RestaurantID: rest.ID, Name: name, Price: 5, IsAvailable: true}))
	}

	svc := &SearchService{Index: DBIndex{Repo: r}}

	res, err := svc.Search(ctx, " tikka ", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Meta.Total)
	assert.EqualValues(t, 2, res.Meta.TotalPages)
	assert.True(t, res.Meta.HasNext)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Chicken Tikka", res.Items[0].Name)

	res, err = svc.Search(ctx, "   ", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 0, res.Meta.Total)
}
