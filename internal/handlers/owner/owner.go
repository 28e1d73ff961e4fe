package owner

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/service/menu"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

// OwnerHandler serves the restaurant dashboard. Every route sits behind
// RequireRole(owner), so CurrentUser is never nil here.
type OwnerHandler struct {
	Menu   *menu.MenuService
	Orders *orders.OrderService
	Now    func() time.Time
}

func (h *OwnerHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *OwnerHandler) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_get_restaurant")

	rest, err := h.Menu.GetRestaurant(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "get_restaurant_error", err)
	}
	return c.JSON(http.StatusOK, rest)
}

func (h *OwnerHandler) PatchRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_patch_restaurant")

	var req transport.PatchRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "patch_restaurant_error", err)
	}
	rest, err := h.Menu.UpdateRestaurant(ctx, authmw.CurrentUser(c).ID, req)
	if err != nil {
		return handlers.Fail(l, "patch_restaurant_error", err)
	}
	return c.JSON(http.StatusOK, rest)
}

func (h *OwnerHandler) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_update_settings")

	var req models.Settings
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "update_settings_error", err)
	}
	rest, err := h.Menu.UpdateSettings(ctx, authmw.CurrentUser(c).ID, req)
	if err != nil {
		return handlers.Fail(l, "update_settings_error", err)
	}
	return c.JSON(http.StatusOK, rest)
}

func (h *OwnerHandler) ToggleOpen(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_toggle_open")

	rest, err := h.Menu.ToggleOpen(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "toggle_open_error", err)
	}
	l.Info("restaurant_toggled", "is_open", rest.IsOpen)
	return c.JSON(http.StatusOK, rest)
}

func (h *OwnerHandler) ListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_list_menu")

	items, err := h.Menu.ListMenu(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "list_menu_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OwnerHandler) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_create_menu_item")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "create_menu_item_error", err)
	}
	item, err := h.Menu.AddMenuItem(ctx, authmw.CurrentUser(c).ID, req)
	if err != nil {
		return handlers.Fail(l, "create_menu_item_error", err)
	}
	l.Info("menu_item_created", "status", 201, "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *OwnerHandler) PatchMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_patch_menu_item", "item_id", c.Param("id"))

	var req transport.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "patch_menu_item_error", err)
	}
	item, err := h.Menu.UpdateMenuItem(ctx, authmw.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return handlers.Fail(l, "patch_menu_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OwnerHandler) ToggleAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_toggle_item", "item_id", c.Param("id"))

	item, err := h.Menu.ToggleAvailability(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "toggle_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OwnerHandler) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_delete_menu_item", "item_id", c.Param("id"))

	if err := h.Menu.DeleteMenuItem(ctx, authmw.CurrentUser(c).ID, c.Param("id")); err != nil {
		return handlers.Fail(l, "delete_menu_item_error", err)
	}
	l.Info("menu_item_deleted", "status", 204)
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_list_orders")

	status := models.OrderStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		l.Warn("list_orders_error", "status", 400, "reason", "unknown status filter")
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
	}
	list, err := h.Orders.ListOrders(ctx, authmw.CurrentUser(c).ID, status)
	if err != nil {
		return handlers.Fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, handlers.LabelAll(list, models.RoleOwner))
}

func (h *OwnerHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_update_status", "order_id", c.Param("id"))

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "update_status_error", err)
	}
	o, err := h.Orders.UpdateOrderStatus(ctx, authmw.CurrentUser(c).ID, c.Param("id"), req.Status)
	if err != nil {
		return handlers.Fail(l, "update_status_error", err)
	}
	return c.JSON(http.StatusOK, handlers.Label(o, models.RoleOwner))
}

func (h *OwnerHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_cancel_order", "order_id", c.Param("id"))

	o, err := h.Orders.CancelOrder(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "cancel_order_error", err)
	}
	return c.JSON(http.StatusOK, handlers.Label(o, models.RoleOwner))
}

func (h *OwnerHandler) AssignCourier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_assign_courier", "order_id", c.Param("id"))

	var req transport.AssignCourierRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "assign_courier_error", err)
	}
	o, err := h.Orders.AssignDeliveryBoy(ctx, authmw.CurrentUser(c).ID, c.Param("id"), req.DeliveryBoyID)
	if err != nil {
		return handlers.Fail(l, "assign_courier_error", err)
	}
	return c.JSON(http.StatusOK, handlers.Label(o, models.RoleOwner))
}

func (h *OwnerHandler) TodayStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_today_stats")

	stats, err := h.Orders.GetTodayStats(ctx, authmw.CurrentUser(c).ID, h.now())
	if err != nil {
		return handlers.Fail(l, "today_stats_error", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *OwnerHandler) Couriers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "owner_couriers")

	list, err := h.Orders.Couriers(ctx)
	if err != nil {
		return handlers.Fail(l, "couriers_error", err)
	}
	return c.JSON(http.StatusOK, list)
}
