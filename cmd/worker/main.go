package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/foodhub/internal/app"
	"github.com/Skotchmaster/foodhub/internal/config"
	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const (
	groupID       = "foodhub-delivery"
	sweepInterval = 5 * time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel).With("service", "foodhub-worker")
	slog.SetDefault(logger)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	a, err := app.New(ctx, cfg, db, logger)
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}
	defer a.Close()

	if store, ok := a.KV.(*kv.GormStore); ok {
		go sweep(ctx, store, logger)
	}

	consumer := mykafka.NewConsumer(cfg.KafkaBrokers, groupID, mykafka.TopicOrders, a.Delivery.HandleOrderEvent)
	defer consumer.Close()

	logger.Info("worker_started", "topic", mykafka.TopicOrders, "group", groupID)
	if err := consumer.Start(ctx); err != nil {
		logger.Error("consumer_stopped", "error", err)
	}
	logger.Info("worker_stopped")
}

// sweep drops expired snapshot rows; Redis expires keys on its own.
func sweep(ctx context.Context, store *kv.GormStore, logger *slog.Logger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Sweep(ctx)
			if err != nil {
				logger.Warn("snapshot_sweep_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("snapshot_sweep", "removed", n)
			}
		}
	}
}
