// Package simulate advances demo orders through the kitchen on a timer so every
// role watches the same authoritative status move.
package simulate

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const batchSize = 50

var kitchen = []models.OrderStatus{models.StatusPending, models.StatusConfirmed, models.StatusPreparing}

type Simulator struct {
	Repo     *repo.GormRepo
	Orders   *orders.OrderService
	Interval time.Duration
	Now      func() time.Time
}

func (s *Simulator) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Tick moves every kitchen order untouched for a full interval one step forward.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	stale, err := s.Repo.StaleOrders(ctx, kitchen, s.now().Add(-s.Interval), batchSize)
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range stale {
		o := &stale[i]
		next, ok := o.Status.Next()
		if !ok {
			continue
		}
		if err := s.Orders.Transition(ctx, o, next); err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, models.ErrIllegalTransition) {
				continue
			}
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// Run ticks until ctx is done. A non-positive interval disables it.
func (s *Simulator) Run(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	l := logging.FromContext(ctx).With("worker", "simulate")
	l.Info("simulator_started", "interval", s.Interval.String())

	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Info("simulator_stopped")
			return
		case <-t.C:
			n, err := s.Tick(ctx)
			if err != nil {
				l.Error("simulator_tick_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Debug("simulator_tick", "advanced", n)
			}
		}
	}
}
