package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const (
	EventStatusChanged = "order_status_changed"
	EventAssigned      = "order_assigned"
	EventPlaced        = "order_placed"
)

// kitchenStatuses are the targets an owner may set; the rest belong to the courier.
var kitchenStatuses = map[models.OrderStatus]bool{
	models.StatusConfirmed: true,
	models.StatusPreparing: true,
	models.StatusReady:     true,
	models.StatusCancelled: true,
}

// RestaurantLookup resolves the restaurant an owner runs.
type RestaurantLookup interface {
	GetRestaurant(ctx context.Context, ownerID string) (*models.Restaurant, error)
}

type OrderService struct {
	Repo        *repo.GormRepo
	Restaurants RestaurantLookup
	Producer    mykafka.Publisher
	Location    *time.Location
	Now         func() time.Time
}

type TodayStats struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Pending int     `json:"pending"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OrderService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s *OrderService) ListOrders(ctx context.Context, ownerID string, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	rest, err := s.Restaurants.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListRestaurantOrders(ctx, rest.ID, status)
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus is the owner-side kitchen flow.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, ownerID, orderID string, to models.OrderStatus) (*models.Order, error) {
	o, err := s.owned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if !kitchenStatuses[to] {
		return nil, &models.TransitionError{From: o.Status, To: to}
	}
	if err := s.Transition(ctx, o, to); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, ownerID, orderID, models.StatusCancelled)
}

// Transition applies one guarded step to o and publishes it. Every actor goes
// through here so the transition table is enforced in one place.
func (s *OrderService) Transition(ctx context.Context, o *models.Order, to models.OrderStatus) error {
	l := logging.FromContext(ctx).With("svc", "orders.transition", "order_id", o.ID)

	if err := models.CheckTransition(o.Status, to); err != nil {
		l.Warn("transition_rejected", "from", o.Status, "to", to)
		return err
	}
	now := s.now().UTC()
	if err := s.Repo.UpdateOrderStatus(ctx, o.ID, o.Status, to, now); err != nil {
		if errors.Is(err, repo.ErrStale) {
			return fmt.Errorf("%w: order %s changed concurrently", domain.ErrConflict, o.ID)
		}
		return err
	}

	from := o.Status
	o.Status, o.UpdatedAt = to, now
	if to == models.StatusDelivered {
		o.DeliveredAt = &now
	}
	l.Info("order_status_changed", "from", from, "to", to)

	data := map[string]string{"order_id": o.ID, "restaurant_id": o.RestaurantID, "from": string(from), "status": string(to)}
	if o.DeliveryBoyID != nil {
		data["delivery_boy_id"] = *o.DeliveryBoyID
	}
	s.Publish(ctx, EventStatusChanged, o.ID, data)
	return nil
}

// AssignDeliveryBoy pins a roster courier to the order without checking availability.
func (s *OrderService) AssignDeliveryBoy(ctx context.Context, ownerID, orderID, courierID string) (*models.Order, error) {
	o, err := s.owned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() || o.Status.InTransit() {
		return nil, fmt.Errorf("%w: order is already %s", domain.ErrConflict, o.Status)
	}
	if _, err := s.Repo.GetCourier(ctx, courierID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown courier", domain.ErrValidation)
		}
		return nil, err
	}
	if err := s.Repo.AssignCourier(ctx, o.ID, courierID, s.now()); err != nil {
		return nil, err
	}
	o.DeliveryBoyID = &courierID
	s.Publish(ctx, EventAssigned, o.ID, map[string]string{"order_id": o.ID, "delivery_boy_id": courierID})
	return o, nil
}

// GetTodayStats counts orders created on now's calendar day in the service location.
func (s *OrderService) GetTodayStats(ctx context.Context, ownerID string, now time.Time) (TodayStats, error) {
	rest, err := s.Restaurants.GetRestaurant(ctx, ownerID)
	if err != nil {
		return TodayStats{}, err
	}
	all, err := s.Repo.ListRestaurantOrders(ctx, rest.ID, "")
	if err != nil {
		return TodayStats{}, err
	}

	var stats TodayStats
	var revenue []float64
	for _, o := range all {
		if !util.SameDay(o.CreatedAt, now, s.loc()) {
			continue
		}
		stats.Orders++
		if o.Status == models.StatusPending {
			stats.Pending++
		}
		if o.Status != models.StatusCancelled {
			revenue = append(revenue, o.TotalAmount)
		}
	}
	stats.Revenue = util.Sum(revenue...)
	return stats, nil
}

func (s *OrderService) Couriers(ctx context.Context) ([]models.Courier, error) {
	return s.Repo.ListCouriers(ctx)
}

func (s *OrderService) Publish(ctx context.Context, typ, key string, data map[string]string) {
	if s.Producer == nil {
		return
	}
	ev := mykafka.Event{Type: typ, OccurredAt: s.now().UTC(), Data: data}
	if err := s.Producer.PublishEvent(ctx, mykafka.TopicOrders, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", mykafka.TopicOrders, "type", typ, "error", err)
	}
}

func (s *OrderService) owned(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	rest, err := s.Restaurants.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != rest.ID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}
