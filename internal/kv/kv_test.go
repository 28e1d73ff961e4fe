package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodhub/internal/models"
	pkgdb "github.com/Skotchmaster/foodhub/pkg/db"
)

type backend struct {
	name    string
	store   Store
	advance func(time.Duration)
}

func newBackends(t *testing.T) []backend {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db, err := pkgdb.OpenMemory(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gs := NewGormStore(db)
	gs.Now = func() time.Time { return now }

	ms := NewMemoryStore()
	ms.Now = func() time.Time { return now }

	return []backend{
		{name: "redis", store: NewRedisStore(client, "test:"), advance: mr.FastForward},
		{name: "gorm", store: gs, advance: func(d time.Duration) { now = now.Add(d) }},
		{name: "memory", store: ms, advance: func(d time.Duration) { now = now.Add(d) }},
	}
}

func TestStores_RoundTripAndCorruption(t *testing.T) {
	ctx := context.Background()

	for _, b := range newBackends(t) {
		b := b
		t.Run(b.name, func(t *testing.T) {
			cart := models.Cart{Items: []models.CartItem{{MenuItemID: "m1", Name: "Pad Thai", Quantity: 2, Price: 12.99, RestaurantID: "r1"}}}
			require.NoError(t, Save(ctx, b.store, CartKey("u1"), cart, 0))

			got, err := Load(ctx, b.store, CartKey("u1"), func() models.Cart { return models.Cart{} })
			require.NoError(t, err)
			assert.Equal(t, cart, got)

			require.NoError(t, b.store.Set(ctx, CartKey("u2"), []byte("{not json"), 0))
			got, err = Load(ctx, b.store, CartKey("u2"), func() models.Cart { return models.Cart{} })
			require.NoError(t, err)
			assert.Empty(t, got.Items)

			_, err = b.store.Get(ctx, CartKey("u2"))
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.store.Delete(ctx, CartKey("u1")))
			_, err = b.store.Get(ctx, CartKey("u1"))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStores_TTL(t *testing.T) {
	ctx := context.Background()

	for _, b := range newBackends(t) {
		b := b
		t.Run(b.name, func(t *testing.T) {
			require.NoError(t, Save(ctx, b.store, EarningsKey("c1"), models.Earnings{Today: 10}, time.Minute))

			_, err := b.store.Get(ctx, EarningsKey("c1"))
			require.NoError(t, err)

			b.advance(2 * time.Minute)
			_, err = b.store.Get(ctx, EarningsKey("c1"))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGormStore_SetOverwritesAndSweeps(t *testing.T) {
	ctx := context.Background()
	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewGormStore(db)
	s.Now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a", []byte(`1`), time.Second))
	require.NoError(t, s.Set(ctx, "a", []byte(`2`), time.Second))
	require.NoError(t, s.Set(ctx, "b", []byte(`3`), 0))

	raw, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), raw)

	now = now.Add(time.Hour)
	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Get(ctx, "b")
	assert.NoError(t, err)
}
