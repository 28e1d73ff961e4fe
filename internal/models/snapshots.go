package models

import "time"

// CartItem lines are keyed by MenuItemID; all lines share one restaurant.
type CartItem struct {
	MenuItemID     string  `json:"menu_item_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	RestaurantID   string  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	Image          string  `json:"image,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) RestaurantID() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].RestaurantID
}

func (c *Cart) Find(menuItemID string) int {
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

type CourierProfile struct {
	CourierID string    `json:"courier_id"`
	IsOnline  bool      `json:"is_online"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	Label string   `json:"label"`
	Line  string   `json:"line"`
	City  string   `json:"city"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

type AddressBook struct {
	Current *Address  `json:"current,omitempty"`
	Saved   []Address `json:"saved"`
}

// Earnings is a projection over delivered orders of one courier.
type Earnings struct {
	Today           float64   `json:"today"`
	ThisWeek        float64   `json:"this_week"`
	ThisMonth       float64   `json:"this_month"`
	Pending         float64   `json:"pending"`
	TotalDeliveries int64     `json:"total_deliveries"`
	ComputedAt      time.Time `json:"computed_at"`
}
