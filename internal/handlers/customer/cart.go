package customer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

func (h *CustomerHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_get")

	cart, err := h.Customer.Cart(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddToCart answers 409 when the cart belongs to another restaurant; the
// client retries with replace=true after confirming.
func (h *CustomerHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "add_to_cart_error", err)
	}
	if req.MenuItemID == "" {
		l.Warn("add_to_cart_error", "status", 400, "reason", "missing menu_item_id")
		return echo.NewHTTPError(http.StatusBadRequest, "menu_item_id is required")
	}
	cart, err := h.Customer.AddToCart(ctx, authmw.CurrentUser(c).ID, req.MenuItemID, req.Replace)
	if err != nil {
		return handlers.Fail(l, "add_to_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CustomerHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_update", "item_id", c.Param("id"))

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "update_cart_error", err)
	}
	cart, err := h.Customer.UpdateCartQuantity(ctx, authmw.CurrentUser(c).ID, c.Param("id"), req.Quantity)
	if err != nil {
		return handlers.Fail(l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CustomerHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_remove", "item_id", c.Param("id"))

	cart, err := h.Customer.RemoveFromCart(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CustomerHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_clear")

	cart, err := h.Customer.ClearCart(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "clear_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}
