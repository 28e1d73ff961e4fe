package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/foodhub/internal/app"
	"github.com/Skotchmaster/foodhub/internal/config"
	"github.com/Skotchmaster/foodhub/internal/handlers"
	authh "github.com/Skotchmaster/foodhub/internal/handlers/auth"
	customerh "github.com/Skotchmaster/foodhub/internal/handlers/customer"
	deliveryh "github.com/Skotchmaster/foodhub/internal/handlers/delivery"
	ownerh "github.com/Skotchmaster/foodhub/internal/handlers/owner"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	httpserver "github.com/Skotchmaster/foodhub/internal/transport/http"
	"github.com/Skotchmaster/foodhub/pkg/logging"
	loggingmw "github.com/Skotchmaster/foodhub/pkg/middleware/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "foodhub")
	slog.SetDefault(logger)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	if err != nil {
		initCancel()
		log.Fatalf("db init: %v", err)
	}
	a, err := app.New(initCtx, cfg, db, logger)
	initCancel()
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowCredentials: true, AllowOrigins: []string{cfg.PublicURL}}))

	httpserver.Register(e, &httpserver.Deps{
		DB:              db,
		Sessions:        authmw.New(a.Auth),
		AuthHandler:     &authh.AuthHandler{Auth: a.Auth},
		OwnerHandler:    &ownerh.OwnerHandler{Menu: a.Menu, Orders: a.Orders},
		DeliveryHandler: &deliveryh.DeliveryHandler{Delivery: a.Delivery},
		CustomerHandler: &customerh.CustomerHandler{Customer: a.Customer},
		SearchHandler:   &handlers.SearchHandler{Search: a.Search},
	})

	runCtx, stopRun := context.WithCancel(context.Background())
	go a.Simulator.Run(logging.IntoContext(runCtx, logger.With("worker", "simulator")))

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting_down")
	stopRun()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	a.Close()
	logger.Info("shutdown_complete")
}
