package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/config"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/container"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/database"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server exited properly")
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependency injection container
	app, err := container.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error closing application", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.ApplyMigrations(app.DB.DB, log); err != nil {
			return err
		}
	}

	reconcile := func(ctx context.Context) error {
		_, err := app.Matches.Reconcile(ctx)
		return err
	}
	if err := app.Scheduler.Every(ctx, "reconcile-conversations", cfg.Scheduler.ReconcileInterval, reconcile); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(app.Server.Start)
	g.Go(func() error { return app.Hub.Run(gctx) })
	g.Go(func() error { return app.Scheduler.Run(gctx) })

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
