package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/foodhub/internal/app"
	"github.com/Skotchmaster/foodhub/internal/config"
	"github.com/Skotchmaster/foodhub/internal/handlers"
	authh "github.com/Skotchmaster/foodhub/internal/handlers/auth"
	customerh "github.com/Skotchmaster/foodhub/internal/handlers/customer"
	deliveryh "github.com/Skotchmaster/foodhub/internal/handlers/delivery"
	ownerh "github.com/Skotchmaster/foodhub/internal/handlers/owner"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/models"
	pkgdb "github.com/Skotchmaster/foodhub/pkg/db"
	pkghash "github.com/Skotchmaster/foodhub/pkg/hash"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	pkghash.Cost = bcrypt.MinCost
	ctx := context.Background()

	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, config.Seed(ctx, db, true))

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		Location:   time.UTC,
		PublicURL:  "http://foodhub.test",
		ESIndex:    "menu_items",
	}
	a, err := app.New(ctx, cfg, db, logging.Discard())
	require.NoError(t, err)

	e := echo.New()
	Register(e, &Deps{
		DB:              db,
		Sessions:        authmw.New(a.Auth),
		AuthHandler:     &authh.AuthHandler{Auth: a.Auth},
		OwnerHandler:    &ownerh.OwnerHandler{Menu: a.Menu, Orders: a.Orders},
		DeliveryHandler: &deliveryh.DeliveryHandler{Delivery: a.Delivery},
		CustomerHandler: &customerh.CustomerHandler{Customer: a.Customer},
		SearchHandler:   &handlers.SearchHandler{Search: a.Search},
	})
	return e
}

func call(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func login(t *testing.T, e *echo.Echo, email string, role models.Role) string {
	t.Helper()
	rec := call(t, e, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": email, "password": config.DemoPassword, "role": role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[struct {
		Token string `json:"token"`
	}](t, rec)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestRoleGuards(t *testing.T) {
	e := newServer(t)

	rec := call(t, e, http.MethodGet, "/api/v1/owner/restaurant", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", decode[map[string]any](t, rec)["redirect"])

	customer := login(t, e, "customer@foodhub.test", models.RoleCustomer)
	rec = call(t, e, http.MethodGet, "/api/v1/owner/restaurant", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/login", decode[map[string]any](t, rec)["redirect"])

	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/api/v1/user/cart", customer, nil).Code)

	require.Equal(t, http.StatusOK, call(t, e, http.MethodPost, "/api/v1/auth/logout", customer, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, e, http.MethodGet, "/api/v1/user/cart", customer, nil).Code)
}

func TestLogin_RoleMismatchNamesRole(t *testing.T) {
	e := newServer(t)
	rec := call(t, e, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "owner@foodhub.test", "password": config.DemoPassword, "role": models.RoleCustomer,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner")
}

// TestOrderAcrossRoles walks one order from cart to delivered earnings.
func TestOrderAcrossRoles(t *testing.T) {
	e := newServer(t)
	customer := login(t, e, "customer@foodhub.test", models.RoleCustomer)
	owner := login(t, e, "owner@foodhub.test", models.RoleOwner)
	courier := login(t, e, "courier@foodhub.test", models.RoleDelivery)

	rec := call(t, e, http.MethodGet, "/api/v1/user/restaurants", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rests := decode[[]models.Restaurant](t, rec)
	require.Len(t, rests, 1)

	rec = call(t, e, http.MethodGet, "/api/v1/user/restaurants/"+rests[0].ID+"/menu", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	menu := decode[struct {
		Items []models.MenuItem `json:"items"`
	}](t, rec)
	require.Len(t, menu.Items, 4)
	var pizza models.MenuItem
	for _, it := range menu.Items {
		if it.Name == "Margherita Pizza" {
			pizza = it
		}
	}
	require.NotEmpty(t, pizza.ID)

	rec = call(t, e, http.MethodPost, "/api/v1/user/cart", customer, map[string]any{"menu_item_id": pizza.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, e, http.MethodPost, "/api/v1/user/orders", customer, map[string]any{
		"address":        map[string]any{"line": "1 Main St", "city": "Springfield"},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[handlers.OrderView](t, rec)
	assert.Equal(t, models.StatusPending, placed.Status)
	assert.Equal(t, "placed", placed.StatusLabel)
	assert.InDelta(t, 12.99, placed.Subtotal, 1e-9)
	assert.InDelta(t, 17.02, placed.TotalAmount, 1e-9)
	assert.InDelta(t, 5.99, placed.EstimatedEarning, 1e-9)

	rec = call(t, e, http.MethodGet, "/api/v1/user/cart", customer, nil)
	assert.Empty(t, decode[map[string]any](t, rec)["items"])

	orderPath := "/api/v1/owner/orders/" + placed.ID
	rec = call(t, e, http.MethodPatch, orderPath+"/status", owner, map[string]any{"status": "ready"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	for _, st := range []string{"confirmed", "preparing", "ready"} {
		rec = call(t, e, http.MethodPatch, orderPath+"/status", owner, map[string]any{"status": st})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Equal(t, "Ready for pickup", decode[handlers.OrderView](t, rec).StatusLabel)

	acceptPath := "/api/v1/delivery/orders/" + placed.ID + "/accept"
	rec = call(t, e, http.MethodPost, acceptPath, courier, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "offline courier cannot accept")

	rec = call(t, e, http.MethodPost, "/api/v1/delivery/online/toggle", courier, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["is_online"])

	rec = call(t, e, http.MethodGet, "/api/v1/delivery/orders/available", courier, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]handlers.OrderView](t, rec), 1)

	rec = call(t, e, http.MethodPost, acceptPath, courier, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusPickedUp, decode[handlers.OrderView](t, rec).Status)

	rec = call(t, e, http.MethodGet, "/api/v1/user/orders/"+placed.ID+"/track", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "out_for_delivery", decode[map[string]any](t, rec)["stage"])

	rec = call(t, e, http.MethodPatch, "/api/v1/delivery/orders/"+placed.ID+"/status", courier, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, e, http.MethodGet, "/api/v1/delivery/earnings", courier, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	earn := decode[models.Earnings](t, rec)
	assert.EqualValues(t, 1, earn.TotalDeliveries)
	assert.InDelta(t, 5.99, earn.Today, 1e-9)

	rec = call(t, e, http.MethodGet, "/api/v1/delivery/orders/active", courier, nil)
	assert.Nil(t, decode[map[string]any](t, rec)["order"])

	rec = call(t, e, http.MethodGet, "/api/v1/user/orders", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Data []handlers.OrderView `json:"data"`
	}](t, rec)
	require.Len(t, history.Data, 1)
	assert.Equal(t, models.StatusDelivered, history.Data[0].Status)

	rec = call(t, e, http.MethodGet, "/api/v1/user/orders/"+placed.ID+"/qr", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestSearch_Public(t *testing.T) {
	e := newServer(t)

	assert.Equal(t, http.StatusBadRequest, call(t, e, http.MethodGet, "/api/v1/search", "", nil).Code)

	rec := call(t, e, http.MethodGet, "/api/v1/search?q=pizza", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[struct {
		Data []models.MenuItem `json:"data"`
	}](t, rec)
	assert.Len(t, res.Data, 2)
}
