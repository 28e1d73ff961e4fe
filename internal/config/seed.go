package config

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	pkghash "github.com/Skotchmaster/foodhub/pkg/hash"
)

const DemoPassword = "demo1234"

// Roster is the fixed courier list an owner can assign from.
func Roster() []models.Courier {
	return []models.Courier{
		{Name: "Rahul Kumar", Phone: "+1 555 0101", IsAvailable: true, Vehicle: "bike"},
		{Name: "Maya Singh", Phone: "+1 555 0102", IsAvailable: true, Vehicle: "scooter"},
		{Name: "Leo Park", Phone: "+1 555 0103", IsAvailable: false, Vehicle: "bike"},
		{Name: "Ana Costa", Phone: "+1 555 0104", IsAvailable: true, Vehicle: "car"},
	}
}

func demoMenu(restaurantID string) []models.MenuItem {
	return []models.MenuItem{
		{RestaurantID: restaurantID, Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: 12.99, Category: "Pizza", IsVeg: true, IsAvailable: true, PreparationTime: 15, Calories: 800, Ingredients: []string{"tomato", "mozzarella", "basil"}},
		{RestaurantID: restaurantID, Name: "Pepperoni Pizza", Description: "Spicy pepperoni, mozzarella", Price: 14.99, Category: "Pizza", IsAvailable: true, PreparationTime: 15, Calories: 950},
		{RestaurantID: restaurantID, Name: "Chicken Burger", Description: "Grilled chicken, lettuce, mayo", Price: 16.99, Category: "Burgers", IsAvailable: true, PreparationTime: 12, Calories: 700},
		{RestaurantID: restaurantID, Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Price: 8.49, Category: "Salads", IsVeg: true, IsAvailable: true, PreparationTime: 5, Calories: 350},
		{RestaurantID: restaurantID, Name: "Tiramisu", Description: "Coffee, mascarpone, cocoa", Price: 6.5, Category: "Desserts", IsVeg: true, IsAvailable: false, PreparationTime: 2, Calories: 450},
	}
}

// Seed inserts the courier roster and, when demo is set, one account per role
// plus a restaurant with a small menu. It is idempotent.
func Seed(ctx context.Context, db *gorm.DB, demo bool) error {
	r := repo.New(db)
	if err := r.SeedCouriers(ctx, Roster()); err != nil {
		return err
	}
	if !demo {
		return nil
	}

	hash, err := pkghash.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	accounts := []models.User{
		{Email: "owner@foodhub.test", Name: "Olivia Owner", Role: models.RoleOwner, PasswordHash: hash},
		{Email: "customer@foodhub.test", Name: "Chris Customer", Role: models.RoleCustomer, PasswordHash: hash},
		{Email: "courier@foodhub.test", Name: "Dan Delivery", Role: models.RoleDelivery, PasswordHash: hash},
	}
	for i := range accounts {
		if err := r.CreateUserIfNotExists(ctx, &accounts[i]); err != nil && !errors.Is(err, repo.ErrConflict) {
			return err
		}
	}

	owner, err := r.FindUserByEmail(ctx, "owner@foodhub.test")
	if err != nil {
		return err
	}
	rest := models.DefaultRestaurant(owner.ID)
	rest.Name = "Bella Cucina"
	rest.Cuisine = "Italian"
	rest.IsOpen = true
	got, err := r.EnsureRestaurant(ctx, rest)
	if err != nil {
		return err
	}

	existing, err := r.ListMenu(ctx, got.ID, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, item := range demoMenu(got.ID) {
		item := item
		if err := r.CreateMenuItem(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}
