package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/config"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/mongodb"
	sheetsrepo "github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/sheets"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/scheduler"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/server/handlers"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/server/router"
	archivesvc "github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/archive"
	forecastsvc "github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/forecast"
	intakesvc "github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/intake"
	ledgersvc "github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/ledger"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/quality"
	reservationsvc "github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/reservation"
	"github.com/saheed-11/milkyway-delivery-system-sub000/pkg/clients/notify"
	"github.com/saheed-11/milkyway-delivery-system-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
	}

	// Optional export sink for day-close rows.
	var exportRepo sheetsrepo.Repository
	if cfg.Sheets.SpreadsheetID != "" {
		exportRepo, err = sheetsrepo.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets export", zap.Error(err))
		}
		baseLogger.Info("day close export enabled")
	}

	// Optional suspension alerting.
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notify.APIKey != "" {
		notifier = notify.NewClient(cfg.Notify)
		baseLogger.Info("suspension alerts enabled")
	} else {
		baseLogger.Warn("notify api key missing, suspension alerts disabled")
	}

	ledgerSvc := ledgersvc.NewService(mongoRepo, baseLogger.Named("svc.ledger"))
	forecastSvc := forecastsvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.forecast"))
	reservationSvc := reservationsvc.NewService(mongoRepo, baseLogger.Named("svc.reservation"))
	archiveSvc := archivesvc.NewService(mongoRepo, baseLogger.Named("svc.archive"))
	enforcer := quality.NewEnforcer(mongoRepo, baseLogger.Named("svc.quality"))
	intakeSvc := intakesvc.NewService(mongoRepo, mongoRepo, mongoRepo, enforcer, ledgerSvc,
		notifier, cfg.Notify.OpsContact, baseLogger.Named("svc.intake"))

	intakeHandler := handlers.NewIntakeHandler(intakeSvc, baseLogger.Named("handlers.intake"))
	stockHandler := handlers.NewStockHandler(ledgerSvc, archiveSvc, forecastSvc, reservationSvc, baseLogger.Named("handlers.stock"))
	engine := router.New(intakeHandler, stockHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Rollover, archiveSvc, forecastSvc, exportRepo, baseLogger.Named("scheduler"))
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
