package transport

import "github.com/Skotchmaster/foodhub/internal/models"

type SignupRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type GoogleLoginRequest struct {
	Role models.Role `json:"role"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type PatchRestaurantRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Cuisine      *string  `json:"cuisine"`
	Address      *string  `json:"address"`
	Phone        *string  `json:"phone"`
	Image        *string  `json:"image"`
	DeliveryTime *string  `json:"delivery_time"`
	MinOrder     *float64 `json:"min_order"`
}

type CreateMenuItemRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	IsVeg           bool     `json:"is_veg"`
	IsAvailable     *bool    `json:"is_available"`
	PreparationTime int      `json:"preparation_time"`
	Calories        int      `json:"calories"`
	Ingredients     []string `json:"ingredients"`
}

type PatchMenuItemRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Price           *float64  `json:"price"`
	Category        *string   `json:"category"`
	Image           *string   `json:"image"`
	IsVeg           *bool     `json:"is_veg"`
	IsAvailable     *bool     `json:"is_available"`
	PreparationTime *int      `json:"preparation_time"`
	Calories        *int      `json:"calories"`
	Ingredients     *[]string `json:"ingredients"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type AssignCourierRequest struct {
	DeliveryBoyID string `json:"delivery_boy_id"`
}

type AddToCartRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Replace    bool   `json:"replace"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type PlaceOrderRequest struct {
	Address       models.Address `json:"address"`
	PaymentMethod string         `json:"payment_method"`
}

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
