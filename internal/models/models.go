package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleDelivery Role = "delivery"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleDelivery:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"         json:"email"`
	Name         string    `gorm:"not null"                     json:"name"`
	Role         Role      `gorm:"not null"                     json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;not null"              json:"user_id"`
	Role      Role      `gorm:"not null"                    json:"role"`
	TokenHash string    `gorm:"uniqueIndex;not null"        json:"-"`
	ExpiresAt int64     `gorm:"not null"                    json:"expires_at"`
	Revoked   bool      `gorm:"default:false"               json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Settings is the operational bag an owner edits from the settings form.
type Settings struct {
	TaxRate        float64         `json:"tax_rate"`
	CommissionRate float64         `json:"commission_rate"`
	Hours          Hours           `json:"hours"`
	Features       map[string]bool `json:"features,omitempty"`
}

type Restaurant struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID      string    `gorm:"uniqueIndex;not null"        json:"owner_id"`
	Name         string    `gorm:"not null"                    json:"name"`
	Description  string    `json:"description"`
	Cuisine      string    `json:"cuisine"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Image        string    `json:"image"`
	IsOpen       bool      `json:"is_open"`
	Rating       float64   `json:"rating"`
	DeliveryTime string    `json:"delivery_time"`
	MinOrder     float64   `json:"min_order"`
	Settings     Settings  `gorm:"serializer:json"             json:"settings"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID    string    `gorm:"index;not null"              json:"restaurant_id"`
	Name            string    `gorm:"not null"                    json:"name"`
	Description     string    `json:"description"`
	Price           float64   `gorm:"not null"                    json:"price"`
	Category        string    `gorm:"index"                       json:"category"`
	Image           string    `json:"image"`
	IsVeg           bool      `json:"is_veg"`
	IsAvailable     bool      `json:"is_available"`
	PreparationTime int       `json:"preparation_time,omitempty"`
	Calories        int       `json:"calories,omitempty"`
	Ingredients     []string  `gorm:"serializer:json"             json:"ingredients,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is a line snapshot copied from the menu at placement time.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey"                 json:"-"`
	OrderID    string  `gorm:"index;not null"             json:"-"`
	MenuItemID string  `gorm:"not null"                   json:"menu_item_id"`
	Name       string  `gorm:"not null"                   json:"name"`
	Quantity   int     `gorm:"not null;check:quantity>0"  json:"quantity"`
	Price      float64 `gorm:"not null"                   json:"price"`
}

type Order struct {
	ID                string      `gorm:"primaryKey;type:varchar(36)"   json:"id"`
	RestaurantID      string      `gorm:"index;not null"                json:"restaurant_id"`
	UserID            string      `gorm:"index;not null"                json:"user_id"`
	DeliveryBoyID     *string     `gorm:"index"                         json:"delivery_boy_id,omitempty"`
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status            OrderStatus `gorm:"index;not null"                json:"status"`
	Subtotal          float64     `gorm:"not null"                      json:"subtotal"`
	DeliveryFee       float64     `json:"delivery_fee"`
	Tax               float64     `json:"tax"`
	TotalAmount       float64     `gorm:"not null"                      json:"total_amount"`
	CustomerName      string      `json:"customer_name"`
	CustomerPhone     string      `json:"customer_phone"`
	DeliveryAddress   string      `json:"delivery_address"`
	PaymentMethod     string      `json:"payment_method"`
	EstimatedEarning  float64     `json:"estimated_earning"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	DeliveredAt       *time.Time  `gorm:"index"                         json:"delivered_at,omitempty"`
	CreatedAt         time.Time   `gorm:"index"                         json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Courier is a roster entry referenced by Order.DeliveryBoyID.
type Courier struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      *string `gorm:"uniqueIndex"                 json:"user_id,omitempty"`
	Name        string  `gorm:"not null"                    json:"name"`
	Phone       string  `json:"phone"`
	IsAvailable bool    `json:"is_available"`
	Vehicle     string  `json:"vehicle"`
}

func (c *Courier) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// KVEntry backs the snapshot store when no redis is configured.
type KVEntry struct {
	Key       string     `gorm:"column:kv_key;primaryKey;type:varchar(255)"`
	Value     []byte     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{&User{}, &Session{}, &Restaurant{}, &MenuItem{}, &Order{}, &OrderItem{}, &Courier{}, &KVEntry{}}
}

// DefaultRestaurant is what an owner gets on first access.
func DefaultRestaurant(ownerID string) *Restaurant {
	return &Restaurant{
		OwnerID:      ownerID,
		Name:         "My Restaurant",
		Description:  "Tell customers what makes your kitchen special.",
		Cuisine:      "Multi-cuisine",
		Rating:       4.5,
		DeliveryTime: "30-40 min",
		MinOrder:     10,
		Settings: Settings{
			TaxRate:        8,
			CommissionRate: 15,
			Hours:          Hours{Open: "10:00", Close: "22:00"},
			Features:       map[string]bool{"online_orders": true},
		},
	}
}
