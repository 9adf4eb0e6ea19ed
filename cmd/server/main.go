package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/config"
	"github.com/mamadbah2/warehouse-tracker/internal/repository/mongodb"
	"github.com/mamadbah2/warehouse-tracker/internal/repository/sheets"
	"github.com/mamadbah2/warehouse-tracker/internal/scheduler"
	"github.com/mamadbah2/warehouse-tracker/internal/server/handlers"
	"github.com/mamadbah2/warehouse-tracker/internal/server/router"
	"github.com/mamadbah2/warehouse-tracker/internal/server/views"
	"github.com/mamadbah2/warehouse-tracker/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/warehouse-tracker/internal/service/reporting"
	"github.com/mamadbah2/warehouse-tracker/pkg/clients/inventoryapi"
	"github.com/mamadbah2/warehouse-tracker/pkg/logger"
	"github.com/mamadbah2/warehouse-tracker/pkg/metrics"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	recorder := metrics.NewInventoryMetrics(prometheus.DefaultRegisterer)
	apiClient := inventoryapi.NewClient(cfg.API, recorder)

	var journal inventory.Journal
	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoJournal, err := mongodb.NewActivityJournal(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb activity journal", zap.Error(err))
		}
		defer func() {
			if err := mongoJournal.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		journal = mongoJournal
		baseLogger.Info("activity journal enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, activity journal disabled")
	}

	controller := inventory.NewController(apiClient, journal, recorder, baseLogger.Named("svc.inventory"))

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.API.Timeout*2)
	if err := controller.Load(loadCtx); err != nil {
		baseLogger.Warn("initial inventory load incomplete", zap.Error(err))
	}
	cancelLoad()

	var exporter scheduler.Exporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = reportingsvc.NewService(sheetsRepo, controller, baseLogger.Named("svc.reporting"))
		baseLogger.Info("google sheets inventory export enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, inventory export disabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler, controller, exporter, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	renderer, err := views.New()
	if err != nil {
		baseLogger.Fatal("failed to parse templates", zap.Error(err))
	}
	dashboardHandler := handlers.NewDashboardHandler(controller, renderer, baseLogger.Named("handlers.dashboard"))
	engine := router.New(dashboardHandler, prometheus.DefaultGatherer, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout*2 + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("api", cfg.API.BaseURL))
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
