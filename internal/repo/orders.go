package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/models"
)

var ErrCourierBusy = errors.New("courier already holds an active order")

var inTransit = []models.OrderStatus{models.StatusPickedUp, models.StatusOnTheWay}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.DB.WithContext(ctx)).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ListRestaurantOrders returns newest first; an empty status means all.
func (r *GormRepo) ListRestaurantOrders(ctx context.Context, restaurantID string, status models.OrderStatus) ([]models.Order, error) {
	q := withItems(r.DB.WithContext(ctx)).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID string, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var out []models.Order
	err := withItems(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return total, out, err
}

// LatestOpenUserOrder is the newest order of the user that is neither delivered nor cancelled.
func (r *GormRepo) LatestOpenUserOrder(ctx context.Context, userID string) (*models.Order, error) {
	var o models.Order
	err := withItems(r.DB.WithContext(ctx)).
		Where("user_id = ? AND status NOT IN ?", userID, []models.OrderStatus{models.StatusDelivered, models.StatusCancelled}).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// UpdateOrderStatus moves id from `from` to `to` only if nobody changed it meanwhile.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus, now time.Time) error {
	now = now.UTC()
	updates := map[string]any{"status": to, "updated_at": now}
	if to == models.StatusDelivered {
		updates["delivered_at"] = now
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (r *GormRepo) AssignCourier(ctx context.Context, orderID, courierID string, now time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"delivery_boy_id": courierID, "updated_at": now.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OrderPool lists ready orders that are unclaimed or pre-assigned to courierID.
func (r *GormRepo) OrderPool(ctx context.Context, courierID string) ([]models.Order, error) {
	var out []models.Order
	err := withItems(r.DB.WithContext(ctx)).
		Where("status = ?", models.StatusReady).
		Where("delivery_boy_id IS NULL OR delivery_boy_id = ?", courierID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *GormRepo) ActiveCourierOrder(ctx context.Context, courierID string) (*models.Order, error) {
	var o models.Order
	err := withItems(r.DB.WithContext(ctx)).
		Where("delivery_boy_id = ? AND status IN ?", courierID, inTransit).
		Order("updated_at DESC").
		First(&o).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ClaimOrder hands a ready order to courierID and marks it picked up. It fails with
// ErrCourierBusy when the courier already carries an order and ErrStale when the
// order left the pool first.
func (r *GormRepo) ClaimOrder(ctx context.Context, orderID, courierID string, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var busy int64
		if err := tx.Model(&models.Order{}).
			Where("delivery_boy_id = ? AND status IN ?", courierID, inTransit).
			Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return ErrCourierBusy
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.StatusReady).
			Where("delivery_boy_id IS NULL OR delivery_boy_id = ?", courierID).
			Updates(map[string]any{
				"status":          models.StatusPickedUp,
				"delivery_boy_id": courierID,
				"updated_at":      now.UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStale
		}
		return nil
	})
}

func (r *GormRepo) DeliveredCourierOrders(ctx context.Context, courierID string) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.WithContext(ctx).
		Where("delivery_boy_id = ? AND status = ?", courierID, models.StatusDelivered).
		Order("delivered_at DESC").
		Find(&out).Error
	return out, err
}

// StaleOrders lists orders in one of statuses whose last change is before cutoff.
func (r *GormRepo) StaleOrders(ctx context.Context, statuses []models.OrderStatus, cutoff time.Time, limit int) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.WithContext(ctx).
		Where("status IN ? AND updated_at <= ?", statuses, cutoff.UTC()).
		Order("updated_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
