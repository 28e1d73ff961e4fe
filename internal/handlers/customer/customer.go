package customer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/models"
	customersvc "github.com/Skotchmaster/foodhub/internal/service/customer"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

type CustomerHandler struct {
	Customer *customersvc.CustomerService
}

func (h *CustomerHandler) Restaurants(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_restaurants")

	list, err := h.Customer.Restaurants(ctx)
	if err != nil {
		return handlers.Fail(l, "restaurants_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CustomerHandler) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_menu", "restaurant_id", c.Param("id"))

	rest, items, err := h.Customer.Menu(ctx, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "menu_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurant": rest, "items": items})
}

func (h *CustomerHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_place_order")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "place_order_error", err)
	}
	o, err := h.Customer.PlaceOrder(ctx, authmw.CurrentUser(c), req)
	if err != nil {
		return handlers.Fail(l, "place_order_error", err)
	}
	l.Info("order_placed", "status", 201, "order_id", o.ID)
	return c.JSON(http.StatusCreated, handlers.Label(o, models.RoleCustomer))
}

func (h *CustomerHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	list, meta, err := h.Customer.Orders(ctx, authmw.CurrentUser(c).ID, page, size)
	if err != nil {
		return handlers.Fail(l, "orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": handlers.LabelAll(list, models.RoleCustomer), "meta": meta})
}

func (h *CustomerHandler) ActiveOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_active_order")

	o, err := h.Customer.ActiveOrder(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "active_order_error", err)
	}
	if o == nil {
		return c.JSON(http.StatusOK, echo.Map{"order": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": handlers.Label(o, models.RoleCustomer)})
}

func (h *CustomerHandler) Order(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_order", "order_id", c.Param("id"))

	o, err := h.Customer.Order(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "order_error", err)
	}
	return c.JSON(http.StatusOK, handlers.Label(o, models.RoleCustomer))
}

func (h *CustomerHandler) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_track", "order_id", c.Param("id"))

	t, err := h.Customer.Track(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "track_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *CustomerHandler) OrderQR(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_order_qr", "order_id", c.Param("id"))

	png, err := h.Customer.OrderQR(ctx, authmw.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return handlers.Fail(l, "order_qr_error", err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *CustomerHandler) Addresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_addresses")

	book, err := h.Customer.Addresses(ctx, authmw.CurrentUser(c).ID)
	if err != nil {
		return handlers.Fail(l, "addresses_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CustomerHandler) SaveAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_save_address")

	var req models.Address
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "save_address_error", err)
	}
	book, err := h.Customer.SaveAddress(ctx, authmw.CurrentUser(c).ID, req)
	if err != nil {
		return handlers.Fail(l, "save_address_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CustomerHandler) SetCurrentAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_current_address")

	var req models.Address
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "current_address_error", err)
	}
	book, err := h.Customer.SetCurrentAddress(ctx, authmw.CurrentUser(c).ID, req)
	if err != nil {
		return handlers.Fail(l, "current_address_error", err)
	}
	return c.JSON(http.StatusOK, book)
}
