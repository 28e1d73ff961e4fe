package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/models"
)

func (r *GormRepo) GetRestaurantByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&rest).Error; err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rest).Error; err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

// EnsureRestaurant returns the owner's restaurant, creating def when none exists yet.
func (r *GormRepo) EnsureRestaurant(ctx context.Context, def *models.Restaurant) (*models.Restaurant, error) {
	tx := r.DB.WithContext(ctx).Where("owner_id = ?", def.OwnerID).FirstOrCreate(def)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return def, nil
}

func (r *GormRepo) SaveRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Save(rest).Error
}

func (r *GormRepo) ListOpenRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.DB.WithContext(ctx).Where("is_open = ?", true).Order("rating DESC, name ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) ListMenu(ctx context.Context, restaurantID string, onlyAvailable bool) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := q.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, restaurantID, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, restaurantID).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchMenu is the database fallback when no search cluster is configured.
func (r *GormRepo) SearchMenu(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	like := "%" + q + "%"
	base := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Where("menu_items.is_available = ? AND restaurants.is_open = ?", true, true).
		Where("LOWER(menu_items.name) LIKE LOWER(?) OR LOWER(menu_items.description) LIKE LOWER(?) OR LOWER(menu_items.category) LIKE LOWER(?)", like, like, like)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.MenuItem
	if err := base.Session(&gorm.Session{}).Select("menu_items.*").Order("menu_items.name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	var out []models.Courier
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) GetCourier(ctx context.Context, id string) (*models.Courier, error) {
	var c models.Courier
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CourierForUser links a delivery account to a roster entry on first use:
// the first unlinked roster row is taken, otherwise a new one is added.
func (r *GormRepo) CourierForUser(ctx context.Context, user *models.User) (*models.Courier, error) {
	var c models.Courier
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", user.ID).First(&c).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		uid := user.ID
		err = tx.Where("user_id IS NULL").Order("name ASC").First(&c).Error
		switch {
		case err == nil:
			c.UserID = &uid
			return tx.Save(&c).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			c = models.Courier{UserID: &uid, Name: user.Name, Phone: user.Phone, IsAvailable: true, Vehicle: "bike"}
			return tx.Create(&c).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) SetCourierAvailable(ctx context.Context, id string, available bool) error {
	return r.DB.WithContext(ctx).Model(&models.Courier{}).Where("id = ?", id).Update("is_available", available).Error
}

// SeedCouriers inserts the fixed roster when the table is empty.
func (r *GormRepo) SeedCouriers(ctx context.Context, roster []models.Courier) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Courier{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 || len(roster) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&roster).Error
}
