// Package app wires the configured backends into the services shared by the
// HTTP server and the event worker.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/config"
	"github.com/Skotchmaster/foodhub/internal/es"
	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/service/auth"
	"github.com/Skotchmaster/foodhub/internal/service/customer"
	"github.com/Skotchmaster/foodhub/internal/service/delivery"
	"github.com/Skotchmaster/foodhub/internal/service/menu"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
	"github.com/Skotchmaster/foodhub/internal/service/search"
	"github.com/Skotchmaster/foodhub/internal/service/simulate"
)

type App struct {
	DB        *gorm.DB
	KV        kv.Store
	Redis     *redis.Client
	Publisher mykafka.Publisher

	Auth      *auth.AuthService
	Menu      *menu.MenuService
	Orders    *orders.OrderService
	Delivery  *delivery.DeliveryService
	Customer  *customer.CustomerService
	Search    *search.SearchService
	Simulator *simulate.Simulator
}

// New builds every service over db. Redis, Kafka and Elasticsearch are optional;
// each falls back to the database or a no-op when unset.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*App, error) {
	a := &App{DB: db, Publisher: mykafka.NewPublisher(cfg.KafkaBrokers)}
	r := repo.New(db)

	if cfg.RedisAddr != "" {
		a.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.KV = kv.NewRedisStore(a.Redis, "foodhub:")
		logger.Info("snapshot_store", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		a.KV = kv.NewGormStore(db)
		logger.Info("snapshot_store", "backend", "gorm")
	}

	var index search.Index = search.DBIndex{Repo: r}
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		index = es.NewMenuIndex(client, cfg.ESIndex)
	}

	a.Auth = &auth.AuthService{
		Repo:      r,
		Secret:    []byte(cfg.JWTSecret),
		TTL:       cfg.SessionTTL,
		DemoMode:  cfg.AuthDemoMode,
		MockDelay: cfg.AuthMockDelay,
		Producer:  a.Publisher,
	}
	a.Menu = &menu.MenuService{Repo: r, Index: index, Producer: a.Publisher}
	a.Orders = &orders.OrderService{Repo: r, Restaurants: a.Menu, Producer: a.Publisher, Location: cfg.Location}
	a.Delivery = &delivery.DeliveryService{
		Repo:        r,
		Orders:      a.Orders,
		KV:          a.KV,
		EarningsTTL: delivery.DefaultEarningsTTL,
		Location:    cfg.Location,
	}
	a.Customer = &customer.CustomerService{Repo: r, Lifecycle: a.Orders, KV: a.KV, PublicURL: cfg.PublicURL}
	a.Search = &search.SearchService{Index: index}
	a.Simulator = &simulate.Simulator{Repo: r, Orders: a.Orders, Interval: cfg.SimulationInterval}
	return a, nil
}

func (a *App) Close() {
	l := slog.Default()
	if err := a.Publisher.Close(); err != nil {
		l.Error("publisher_close_error", "error", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			l.Error("redis_close_error", "error", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			l.Error("db_close_error", "error", err)
		}
	}
}
