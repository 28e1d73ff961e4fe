package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const (
	DefaultEarningsTTL = 10 * time.Minute
	maxNotifications   = 50
)

type DeliveryService struct {
	Repo        *repo.GormRepo
	Orders      *orders.OrderService
	KV          kv.Store
	EarningsTTL time.Duration
	Location    *time.Location
	Now         func() time.Time
}

func (s *DeliveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DeliveryService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// CourierFor resolves the roster entry behind a delivery account.
func (s *DeliveryService) CourierFor(ctx context.Context, user *models.User) (*models.Courier, error) {
	return s.Repo.CourierForUser(ctx, user)
}

func (s *DeliveryService) Profile(ctx context.Context, courierID string) (models.CourierProfile, error) {
	return kv.Load(ctx, s.KV, kv.CourierKey(courierID), func() models.CourierProfile {
		return models.CourierProfile{CourierID: courierID}
	})
}

// ToggleOnlineStatus flips presence; an order already in hand is unaffected.
func (s *DeliveryService) ToggleOnlineStatus(ctx context.Context, courierID string) (models.CourierProfile, error) {
	p, err := s.Profile(ctx, courierID)
	if err != nil {
		return p, err
	}
	p.IsOnline = !p.IsOnline
	p.UpdatedAt = s.now().UTC()
	if err := kv.Save(ctx, s.KV, kv.CourierKey(courierID), p, 0); err != nil {
		return p, err
	}
	if err := s.Repo.SetCourierAvailable(ctx, courierID, p.IsOnline); err != nil {
		logging.FromContext(ctx).Warn("courier_availability_sync_failed", "courier_id", courierID, "error", err)
	}
	return p, nil
}

func (s *DeliveryService) UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (models.CourierProfile, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.CourierProfile{}, fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	p, err := s.Profile(ctx, courierID)
	if err != nil {
		return p, err
	}
	p.Lat, p.Lng, p.UpdatedAt = lat, lng, s.now().UTC()
	if err := kv.Save(ctx, s.KV, kv.CourierKey(courierID), p, 0); err != nil {
		return p, err
	}
	return p, nil
}

// AvailableOrders is the pool: ready orders nobody else has claimed.
func (s *DeliveryService) AvailableOrders(ctx context.Context, courierID string) ([]models.Order, error) {
	return s.Repo.OrderPool(ctx, courierID)
}

// ActiveOrder returns nil when the courier carries nothing.
func (s *DeliveryService) ActiveOrder(ctx context.Context, courierID string) (*models.Order, error) {
	o, err := s.Repo.ActiveCourierOrder(ctx, courierID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return o, err
}

func (s *DeliveryService) AcceptOrder(ctx context.Context, courierID, orderID string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "delivery.accept", "courier_id", courierID, "order_id", orderID)

	active, err := s.ActiveOrder(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrActiveOrderExists
	}
	p, err := s.Profile(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if !p.IsOnline {
		return nil, domain.ErrOffline
	}

	if err := s.Repo.ClaimOrder(ctx, orderID, courierID, s.now()); err != nil {
		switch {
		case errors.Is(err, repo.ErrCourierBusy):
			return nil, domain.ErrActiveOrderExists
		case errors.Is(err, repo.ErrStale):
			if _, getErr := s.Repo.GetOrder(ctx, orderID); errors.Is(getErr, repo.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			l.Warn("accept_failed", "status", 409, "reason", "order left the pool")
			return nil, domain.ErrAlreadyClaimed
		default:
			return nil, err
		}
	}

	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	l.Info("order_accepted")
	s.Orders.Publish(ctx, orders.EventStatusChanged, o.ID, map[string]string{
		"order_id":        o.ID,
		"restaurant_id":   o.RestaurantID,
		"from":            string(models.StatusReady),
		"status":          string(o.Status),
		"delivery_boy_id": courierID,
	})
	return o, nil
}

// UpdateOrderStatus advances the courier's active order. Delivery closes it,
// refreshes earnings and leaves a notification.
func (s *DeliveryService) UpdateOrderStatus(ctx context.Context, courierID, orderID string, to models.OrderStatus) (*models.Order, error) {
	active, err := s.ActiveOrder(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if active == nil || active.ID != orderID {
		return nil, domain.ErrNotActiveOrder
	}
	if to != models.StatusOnTheWay && to != models.StatusDelivered {
		return nil, &models.TransitionError{From: active.Status, To: to}
	}
	if err := s.Orders.Transition(ctx, active, to); err != nil {
		return nil, err
	}

	if to == models.StatusDelivered {
		s.InvalidateEarnings(ctx, courierID)
		body := fmt.Sprintf("Order %s delivered. You earned %.2f.", shortID(active.ID), active.EstimatedEarning)
		if err := s.Notify(ctx, courierID, "Delivery completed", body); err != nil {
			logging.FromContext(ctx).Warn("notify_failed", "courier_id", courierID, "error", err)
		}
	}
	return active, nil
}

// Earnings serves the cached projection, recomputing it when absent or expired.
func (s *DeliveryService) Earnings(ctx context.Context, courierID string) (models.Earnings, error) {
	e, err := kv.Load(ctx, s.KV, kv.EarningsKey(courierID), func() models.Earnings { return models.Earnings{} })
	if err != nil {
		return e, err
	}
	if !e.ComputedAt.IsZero() {
		return e, nil
	}
	return s.Reconcile(ctx, courierID)
}

// Reconcile derives earnings from delivered orders and refreshes the cache.
func (s *DeliveryService) Reconcile(ctx context.Context, courierID string) (models.Earnings, error) {
	delivered, err := s.Repo.DeliveredCourierOrders(ctx, courierID)
	if err != nil {
		return models.Earnings{}, err
	}
	active, err := s.ActiveOrder(ctx, courierID)
	if err != nil {
		return models.Earnings{}, err
	}

	now := s.now()
	dayStart := util.StartOfDay(now, s.loc())
	weekStart := util.StartOfWeek(now, s.loc())
	monthStart := util.StartOfMonth(now, s.loc())

	var today, week, month []float64
	for _, o := range delivered {
		if o.DeliveredAt == nil {
			continue
		}
		at := *o.DeliveredAt
		if !at.Before(dayStart) {
			today = append(today, o.EstimatedEarning)
		}
		if !at.Before(weekStart) {
			week = append(week, o.EstimatedEarning)
		}
		if !at.Before(monthStart) {
			month = append(month, o.EstimatedEarning)
		}
	}

	e := models.Earnings{
		Today:           util.Sum(today...),
		ThisWeek:        util.Sum(week...),
		ThisMonth:       util.Sum(month...),
		TotalDeliveries: int64(len(delivered)),
		ComputedAt:      now.UTC(),
	}
	if active != nil {
		e.Pending = util.Round2(active.EstimatedEarning)
	}

	ttl := s.EarningsTTL
	if ttl <= 0 {
		ttl = DefaultEarningsTTL
	}
	if err := kv.Save(ctx, s.KV, kv.EarningsKey(courierID), e, ttl); err != nil {
		logging.FromContext(ctx).Warn("earnings_cache_failed", "courier_id", courierID, "error", err)
	}
	return e, nil
}

func (s *DeliveryService) InvalidateEarnings(ctx context.Context, courierID string) {
	if err := s.KV.Delete(ctx, kv.EarningsKey(courierID)); err != nil {
		logging.FromContext(ctx).Warn("earnings_invalidate_failed", "courier_id", courierID, "error", err)
	}
}

func (s *DeliveryService) Notifications(ctx context.Context, courierID string) ([]models.Notification, error) {
	return kv.Load(ctx, s.KV, kv.NotificationsKey(courierID), func() []models.Notification { return []models.Notification{} })
}

// Notify prepends a notification, keeping the newest maxNotifications.
func (s *DeliveryService) Notify(ctx context.Context, courierID, title, body string) error {
	list, err := s.Notifications(ctx, courierID)
	if err != nil {
		return err
	}
	n := models.Notification{ID: uuid.NewString(), Title: title, Body: body, CreatedAt: s.now().UTC()}
	list = append([]models.Notification{n}, list...)
	if len(list) > maxNotifications {
		list = list[:maxNotifications]
	}
	return kv.Save(ctx, s.KV, kv.NotificationsKey(courierID), list, 0)
}

func (s *DeliveryService) MarkNotificationsRead(ctx context.Context, courierID string) ([]models.Notification, error) {
	list, err := s.Notifications(ctx, courierID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Read = true
	}
	if err := kv.Save(ctx, s.KV, kv.NotificationsKey(courierID), list, 0); err != nil {
		return nil, err
	}
	return list, nil
}

// NotifyOnline tells every online roster courier about a new pool order.
func (s *DeliveryService) NotifyOnline(ctx context.Context, title, body string) (int, error) {
	couriers, err := s.Repo.ListCouriers(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, c := range couriers {
		p, err := s.Profile(ctx, c.ID)
		if err != nil || !p.IsOnline {
			continue
		}
		if err := s.Notify(ctx, c.ID, title, body); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
