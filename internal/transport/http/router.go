package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authh "github.com/Skotchmaster/foodhub/internal/handlers/auth"
	customerh "github.com/Skotchmaster/foodhub/internal/handlers/customer"
	deliveryh "github.com/Skotchmaster/foodhub/internal/handlers/delivery"
	ownerh "github.com/Skotchmaster/foodhub/internal/handlers/owner"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	"github.com/Skotchmaster/foodhub/internal/models"
)

type Deps struct {
	DB              *gorm.DB
	Sessions        *authmw.Middleware
	AuthHandler     *authh.AuthHandler
	OwnerHandler    *ownerh.OwnerHandler
	DeliveryHandler *deliveryh.DeliveryHandler
	CustomerHandler *customerh.CustomerHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/google", d.AuthHandler.GoogleLogin)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/session", d.AuthHandler.Session)

	v1.GET("/search", d.SearchHandler.Handler)

	owner := v1.Group("/owner", d.Sessions.RequireRole(models.RoleOwner))
	owner.GET("/restaurant", d.OwnerHandler.GetRestaurant)
	owner.PATCH("/restaurant", d.OwnerHandler.PatchRestaurant)
	owner.PUT("/restaurant/settings", d.OwnerHandler.UpdateSettings)
	owner.POST("/restaurant/toggle", d.OwnerHandler.ToggleOpen)
	owner.GET("/menu", d.OwnerHandler.ListMenu)
	owner.POST("/menu", d.OwnerHandler.CreateMenuItem)
	owner.PATCH("/menu/:id", d.OwnerHandler.PatchMenuItem)
	owner.POST("/menu/:id/toggle", d.OwnerHandler.ToggleAvailability)
	owner.DELETE("/menu/:id", d.OwnerHandler.DeleteMenuItem)
	owner.GET("/orders", d.OwnerHandler.ListOrders)
	owner.PATCH("/orders/:id/status", d.OwnerHandler.UpdateOrderStatus)
	owner.POST("/orders/:id/cancel", d.OwnerHandler.CancelOrder)
	owner.POST("/orders/:id/assign", d.OwnerHandler.AssignCourier)
	owner.GET("/stats/today", d.OwnerHandler.TodayStats)
	owner.GET("/couriers", d.OwnerHandler.Couriers)

	delivery := v1.Group("/delivery", d.Sessions.RequireRole(models.RoleDelivery))
	delivery.GET("/profile", d.DeliveryHandler.Profile)
	delivery.POST("/online/toggle", d.DeliveryHandler.ToggleOnline)
	delivery.PUT("/location", d.DeliveryHandler.UpdateLocation)
	delivery.GET("/orders/available", d.DeliveryHandler.AvailableOrders)
	delivery.GET("/orders/active", d.DeliveryHandler.ActiveOrder)
	delivery.POST("/orders/:id/accept", d.DeliveryHandler.AcceptOrder)
	delivery.PATCH("/orders/:id/status", d.DeliveryHandler.UpdateOrderStatus)
	delivery.GET("/earnings", d.DeliveryHandler.Earnings)
	delivery.POST("/earnings/reconcile", d.DeliveryHandler.ReconcileEarnings)
	delivery.GET("/notifications", d.DeliveryHandler.Notifications)
	delivery.POST("/notifications/read", d.DeliveryHandler.MarkNotificationsRead)

	user := v1.Group("/user", d.Sessions.RequireRole(models.RoleCustomer))
	user.GET("/restaurants", d.CustomerHandler.Restaurants)
	user.GET("/restaurants/:id/menu", d.CustomerHandler.Menu)
	user.GET("/cart", d.CustomerHandler.GetCart)
	user.POST("/cart", d.CustomerHandler.AddToCart)
	user.PATCH("/cart/:id", d.CustomerHandler.UpdateCartItem)
	user.DELETE("/cart/:id", d.CustomerHandler.RemoveFromCart)
	user.DELETE("/cart", d.CustomerHandler.ClearCart)
	user.POST("/orders", d.CustomerHandler.PlaceOrder)
	user.GET("/orders", d.CustomerHandler.Orders)
	user.GET("/orders/active", d.CustomerHandler.ActiveOrder)
	user.GET("/orders/:id", d.CustomerHandler.Order)
	user.GET("/orders/:id/track", d.CustomerHandler.Track)
	user.GET("/orders/:id/qr", d.CustomerHandler.OrderQR)
	user.GET("/addresses", d.CustomerHandler.Addresses)
	user.POST("/addresses", d.CustomerHandler.SaveAddress)
	user.PUT("/addresses/current", d.CustomerHandler.SetCurrentAddress)
}
