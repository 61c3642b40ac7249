package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/config"
	"github.com/mamadbah2/pantry/internal/repository/mongodb"
	"github.com/mamadbah2/pantry/internal/scheduler"
	"github.com/mamadbah2/pantry/internal/server/handlers"
	"github.com/mamadbah2/pantry/internal/server/router"
	alertsvc "github.com/mamadbah2/pantry/internal/service/alerts"
	cartsvc "github.com/mamadbah2/pantry/internal/service/cart"
	catalogsvc "github.com/mamadbah2/pantry/internal/service/catalog"
	ledgersvc "github.com/mamadbah2/pantry/internal/service/ledger"
	"github.com/mamadbah2/pantry/pkg/clients/webhook"
	"github.com/mamadbah2/pantry/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	catalogSvc := catalogsvc.NewService(store, baseLogger.Named("svc.catalog"))
	cartSvc := cartsvc.NewService(store, baseLogger.Named("svc.cart"))
	ledgerSvc := ledgersvc.NewService(store, baseLogger.Named("svc.ledger"))

	webhookClient := webhook.NewClient(cfg.Alerts.WebhookURL)
	alertsSvc := alertsvc.NewService(store, webhookClient, baseLogger.Named("svc.alerts"))

	catalogHandler := handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog"))
	cartHandler := handlers.NewCartHandler(cartSvc, baseLogger.Named("handlers.cart"))
	ledgerHandler := handlers.NewLedgerHandler(ledgerSvc, store, baseLogger.Named("handlers.ledger"))
	engine := router.New(catalogHandler, cartHandler, ledgerHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Alerts, alertsSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
