package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/config"
	"github.com/cropwise/cropwise/internal/scheduler"
	"github.com/cropwise/cropwise/internal/server/handlers"
	"github.com/cropwise/cropwise/internal/server/router"
	advisorsvc "github.com/cropwise/cropwise/internal/service/advisor"
	"github.com/cropwise/cropwise/internal/store"
	"github.com/cropwise/cropwise/pkg/clients/openrouter"
	"github.com/cropwise/cropwise/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		baseLogger.Fatal("failed to create upload directory", zap.Error(err))
	}

	recordStore := store.Open(context.Background(), cfg, baseLogger.Named("repo.store"))
	defer func() {
		if err := recordStore.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	// Initialize AI client
	var aiClient openrouter.Client
	if cfg.AI.OpenRouterKey != "" {
		aiClient = openrouter.NewClient(cfg.AI.OpenRouterKey)
		baseLogger.Info("openrouter ai client enabled")
	} else {
		baseLogger.Warn("openrouter api key missing, ai advice disabled")
	}

	adviceSvc := advisorsvc.NewService(aiClient, baseLogger.Named("svc.advisor"))
	handlerSet := handlers.NewSet(recordStore, adviceSvc, cfg.Storage.UploadDir, baseLogger)
	engine := router.New(handlerSet, cfg.Storage.UploadDir, baseLogger.Named("router"))

	// Initialize snapshot scheduler
	sched := scheduler.NewScheduler(recordStore, cfg.Snapshot.CronSchedule, baseLogger.Named("scheduler"))
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

	// Flush current memory before exit so the next start loads it back.
	recordStore.Snapshot(shutdownCtx)
}
