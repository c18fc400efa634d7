package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mawucano-design/diagnostico-forrajero/internal/config"
	"github.com/mawucano-design/diagnostico-forrajero/internal/repository/mongodb"
	"github.com/mawucano-design/diagnostico-forrajero/internal/repository/sheets"
	"github.com/mawucano-design/diagnostico-forrajero/internal/scheduler"
	"github.com/mawucano-design/diagnostico-forrajero/internal/server/handlers"
	"github.com/mawucano-design/diagnostico-forrajero/internal/server/router"
	analysissvc "github.com/mawucano-design/diagnostico-forrajero/internal/service/analysis"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/forage"
	"github.com/mawucano-design/diagnostico-forrajero/pkg/clients/satellite"
	"github.com/mawucano-design/diagnostico-forrajero/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
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

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("google sheets report export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet export disabled")
	}

	var satClient satellite.Client
	if cfg.Satellite.Enabled() {
		satClient = satellite.NewClient(cfg.Satellite)
		baseLogger.Info("satellite index client enabled", zap.String("collection", cfg.Satellite.Collection))
	} else {
		baseLogger.Warn("satellite credentials missing, monitoring runs will use simulated indices")
	}

	aggregator := forage.NewAggregator(cfg.Forage.AnalysisWorkers)
	analysisSvc := analysissvc.NewService(aggregator, mongoRepo, sheetsRepo, satClient, cfg.Forage.MaxGrazingDays, baseLogger.Named("svc.analysis"))

	analysisHandler := handlers.NewAnalysisHandler(analysisSvc, baseLogger.Named("handlers.analysis"))
	engine := router.New(analysisHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Monitoring, analysisSvc, baseLogger.Named("scheduler"))
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
