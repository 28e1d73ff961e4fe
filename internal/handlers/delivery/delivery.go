package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/models"
	deliverysvc "github.com/Skotchmaster/foodhub/internal/service/delivery"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

type DeliveryHandler struct {
	Delivery *deliverysvc.DeliveryService
}

// courierID resolves the roster entry behind the logged-in delivery account.
func (h *DeliveryHandler) courierID(c echo.Context) (string, error) {
	courier, err := h.Delivery.CourierFor(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return "", err
	}
	return courier.ID, nil
}

// withCourier runs fn for the caller's courier and maps any error through handlers.Fail.
func (h *DeliveryHandler) withCourier(c echo.Context, handler string, fn func(courierID string) (any, error)) error {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)
	id, err := h.courierID(c)
	if err != nil {
		return handlers.Fail(l, "courier_lookup_error", err)
	}
	out, err := fn(id)
	if err != nil {
		return handlers.Fail(l.With("courier_id", id), handler+"_error", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) Profile(c echo.Context) error {
	return h.withCourier(c, "delivery_profile", func(id string) (any, error) {
		return h.Delivery.Profile(c.Request().Context(), id)
	})
}

func (h *DeliveryHandler) ToggleOnline(c echo.Context) error {
	return h.withCourier(c, "delivery_toggle_online", func(id string) (any, error) {
		return h.Delivery.ToggleOnlineStatus(c.Request().Context(), id)
	})
}

func (h *DeliveryHandler) UpdateLocation(c echo.Context) error {
	var req transport.LocationRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(logging.FromContext(c.Request().Context()).With("handler", "delivery_location"), "location_error", err)
	}
	return h.withCourier(c, "delivery_location", func(id string) (any, error) {
		return h.Delivery.UpdateLocation(c.Request().Context(), id, req.Lat, req.Lng)
	})
}

func (h *DeliveryHandler) AvailableOrders(c echo.Context) error {
	return h.withCourier(c, "delivery_available_orders", func(id string) (any, error) {
		list, err := h.Delivery.AvailableOrders(c.Request().Context(), id)
		if err != nil {
			return nil, err
		}
		return handlers.LabelAll(list, models.RoleDelivery), nil
	})
}

// ActiveOrder answers {"order": null} when the courier carries nothing.
func (h *DeliveryHandler) ActiveOrder(c echo.Context) error {
	return h.withCourier(c, "delivery_active_order", func(id string) (any, error) {
		o, err := h.Delivery.ActiveOrder(c.Request().Context(), id)
		if err != nil || o == nil {
			return echo.Map{"order": nil}, err
		}
		return echo.Map{"order": handlers.Label(o, models.RoleDelivery)}, nil
	})
}

func (h *DeliveryHandler) AcceptOrder(c echo.Context) error {
	return h.withCourier(c, "delivery_accept_order", func(id string) (any, error) {
		o, err := h.Delivery.AcceptOrder(c.Request().Context(), id, c.Param("id"))
		if err != nil {
			return nil, err
		}
		return handlers.Label(o, models.RoleDelivery), nil
	})
}

func (h *DeliveryHandler) UpdateOrderStatus(c echo.Context) error {
	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(logging.FromContext(c.Request().Context()).With("handler", "delivery_update_status"), "update_status_error", err)
	}
	return h.withCourier(c, "delivery_update_status", func(id string) (any, error) {
		o, err := h.Delivery.UpdateOrderStatus(c.Request().Context(), id, c.Param("id"), req.Status)
		if err != nil {
			return nil, err
		}
		return handlers.Label(o, models.RoleDelivery), nil
	})
}

func (h *DeliveryHandler) Earnings(c echo.Context) error {
	return h.withCourier(c, "delivery_earnings", func(id string) (any, error) {
		return h.Delivery.Earnings(c.Request().Context(), id)
	})
}

func (h *DeliveryHandler) ReconcileEarnings(c echo.Context) error {
	return h.withCourier(c, "delivery_reconcile_earnings", func(id string) (any, error) {
		return h.Delivery.Reconcile(c.Request().Context(), id)
	})
}

func (h *DeliveryHandler) Notifications(c echo.Context) error {
	return h.withCourier(c, "delivery_notifications", func(id string) (any, error) {
		return h.Delivery.Notifications(c.Request().Context(), id)
	})
}

func (h *DeliveryHandler) MarkNotificationsRead(c echo.Context) error {
	return h.withCourier(c, "delivery_notifications_read", func(id string) (any, error) {
		return h.Delivery.MarkNotificationsRead(c.Request().Context(), id)
	})
}
