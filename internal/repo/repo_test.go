package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodhub/internal/models"
	pkgdb "github.com/Skotchmaster/foodhub/pkg/db"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	db, err := pkgdb.OpenMemory(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return New(db)
}

func readyOrder(t *testing.T, r *GormRepo, restaurantID string, at time.Time) *models.Order {
	t.Helper()
	o := &models.Order{
		RestaurantID: restaurantID,
		UserID:       "u1",
		Status:       models.StatusReady,
		Subtotal:     20,
		TotalAmount:  24.59,
		Items:        []models.OrderItem{{MenuItemID: "m1", Name: "Burger", Quantity: 2, Price: 10}},
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	require.NoError(t, r.CreateOrder(context.Background(), o))
	return o
}

func TestUsers_CaseInsensitiveUnique(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.CreateUserIfNotExists(ctx, &models.User{Email: "Ann@Example.com", Name: "Ann", Role: models.RoleCustomer, PasswordHash: "x"}))
	err := r.CreateUserIfNotExists(ctx, &models.User{Email: "ann@example.COM", Name: "Other", Role: models.RoleOwner, PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrConflict)

	u, err := r.FindUserByEmail(ctx, "  ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)

	_, err = r.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := r.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSessions_Revoke(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	s := &models.Session{ID: "jti-1", UserID: "u1", Role: models.RoleCustomer, TokenHash: "h1", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	require.NoError(t, r.CreateSession(ctx, s))
	require.NoError(t, r.RevokeSession(ctx, "h1"))

	got, err := r.FindSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, got.Revoked)
}

func TestOrders_ClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := readyOrder(t, r, "r1", now)
	b := readyOrder(t, r, "r1", now.Add(time.Minute))

	pool, err := r.OrderPool(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, pool, 2)
	assert.Len(t, pool[0].Items, 1)

	require.NoError(t, r.ClaimOrder(ctx, a.ID, "c1", now))
	assert.ErrorIs(t, r.ClaimOrder(ctx, a.ID, "c2", now), ErrStale)
	assert.ErrorIs(t, r.ClaimOrder(ctx, b.ID, "c1", now), ErrCourierBusy)

	active, err := r.ActiveCourierOrder(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
	assert.Equal(t, models.StatusPickedUp, active.Status)

	pool, err = r.OrderPool(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, b.ID, pool[0].ID)
}

func TestOrders_PreassignedStaysWithCourier(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	o := readyOrder(t, r, "r1", now)
	require.NoError(t, r.AssignCourier(ctx, o.ID, "c1", now))

	pool, err := r.OrderPool(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, pool)

	assert.ErrorIs(t, r.ClaimOrder(ctx, o.ID, "c2", now), ErrStale)
	require.NoError(t, r.ClaimOrder(ctx, o.ID, "c1", now))
}

func TestOrders_GuardedStatusUpdate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	o := readyOrder(t, r, "r1", now)
	require.NoError(t, r.ClaimOrder(ctx, o.ID, "c1", now))
	assert.ErrorIs(t, r.UpdateOrderStatus(ctx, o.ID, models.StatusReady, models.StatusPickedUp, now), ErrStale)

	require.NoError(t, r.UpdateOrderStatus(ctx, o.ID, models.StatusPickedUp, models.StatusDelivered, now.Add(time.Hour)))
	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.True(t, got.DeliveredAt.Equal(now.Add(time.Hour)))

	delivered, err := r.DeliveredCourierOrders(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, delivered, 1)
}

func TestOrders_UserHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := readyOrder(t, r, "r1", now)
	second := readyOrder(t, r, "r1", now.Add(time.Minute))

	total, list, err := r.ListUserOrders(ctx, "u1", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	open, err := r.LatestOpenUserOrder(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, open.ID)
}

func TestCourierForUser_LinksRosterOnce(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.SeedCouriers(ctx, []models.Courier{{Name: "Alex", Phone: "1", IsAvailable: true, Vehicle: "bike"}}))
	require.NoError(t, r.SeedCouriers(ctx, []models.Courier{{Name: "Ignored"}}))

	u1 := &models.User{ID: "u1", Name: "Dee"}
	c1, err := r.CourierForUser(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, "Alex", c1.Name)

	again, err := r.CourierForUser(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, again.ID)

	c2, err := r.CourierForUser(ctx, &models.User{ID: "u2", Name: "Sam"})
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, "Sam", c2.Name)

	all, err := r.ListCouriers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearchMenu_OnlyAvailableInOpenRestaurants(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	open := &models.Restaurant{OwnerID: "o1", Name: "Open", IsOpen: true}
	closed := &models.Restaurant{OwnerID: "o2", Name: "Closed"}
	require.NoError(t, r.SaveRestaurant(ctx, open))
	require.NoError(t, r.SaveRestaurant(ctx, closed))

	require.NoError(t, r.CreateMenuItem(ctx, &models.MenuItem{RestaurantID: open.ID, Name: "Pad Thai", Price: 12.99, IsAvailable: true}))
	require.NoError(t, r.CreateMenuItem(ctx, &models.MenuItem{RestaurantID: open.ID, Name: "Thai Tea", Price: 3, IsAvailable: false}))
	require.NoError(t, r.CreateMenuItem(ctx, &models.MenuItem{RestaurantID: closed.ID, Name: "Thai Curry", Price: 9, IsAvailable: true}))

	total, items, err := r.SearchMenu(ctx, "thai", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Pad Thai", items[0].Name)
}
