package delivery

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
)

// HandleOrderEvent reacts to order_events: new pool orders ping online couriers
// and deliveries drop the courier's cached earnings.
func (s *DeliveryService) HandleOrderEvent(ctx context.Context, ev mykafka.Event) error {
	if ev.Type != orders.EventStatusChanged {
		return nil
	}
	switch models.OrderStatus(ev.Data["status"]) {
	case models.StatusReady:
		body := fmt.Sprintf("Order %s is ready for pickup.", shortID(ev.Data["order_id"]))
		_, err := s.NotifyOnline(ctx, "New order available", body)
		return err
	case models.StatusDelivered:
		if id := ev.Data["delivery_boy_id"]; id != "" {
			s.InvalidateEarnings(ctx, id)
		}
	}
	return nil
}
