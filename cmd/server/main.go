// Package main is the entry point for the BufferScope buffer-ETF analytics server.
//
// Startup sequence:
//  1. Load configuration from environment variables (.env file supported)
//  2. Initialize structured logging
//  3. Open and migrate the store and cache databases
//  4. Build the synthetic fund registry for the configured as-of date
//  5. Warm the performance series cache
//  6. Start the HTTP server and the background scheduler
//  7. Wait for SIGINT/SIGTERM and shut down gracefully
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/corgilabs/bufferscope/internal/config"
	"github.com/corgilabs/bufferscope/internal/database"
	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/modules/performance"
	"github.com/corgilabs/bufferscope/internal/modules/watchlists"
	"github.com/corgilabs/bufferscope/internal/reliability"
	"github.com/corgilabs/bufferscope/internal/scheduler"
	"github.com/corgilabs/bufferscope/internal/server"
	"github.com/corgilabs/bufferscope/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("as_of", cfg.AsOfDate.Format("2006-01-02")).
		Str("data_dir", cfg.DataDir).
		Msg("Starting BufferScope")

	// Databases
	storeDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "store.db"),
		Name:    "store",
		Profile: database.ProfileStandard,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store database")
	}
	defer storeDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Name:    "cache",
		Profile: database.ProfileCache,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{storeDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Fund registry and services
	registry := funds.NewRegistry(cfg.AsOfDate, log)

	perfRepo := performance.NewRepository(cacheDB, log)
	perfService := performance.NewService(registry, perfRepo, log)

	if err := perfService.WarmCache(); err != nil {
		log.Error().Err(err).Msg("Failed to warm performance cache")
	}

	watchlistRepo := watchlists.NewRepository(storeDB, log)
	watchlistService := watchlists.NewService(watchlistRepo, registry, log)

	// Optional S3 backups
	var backupService *reliability.BackupService
	if cfg.Backup != nil && cfg.Backup.Enabled {
		s3Client, err := reliability.NewS3Client(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 client")
		}
		backupService = reliability.NewBackupService(
			s3Client,
			[]*database.DB{storeDB, cacheDB},
			cfg.DataDir,
			log,
		)
		log.Info().Str("bucket", cfg.Backup.Bucket).Msg("S3 backups enabled")
	}

	// HTTP server
	srv := server.New(server.Config{
		Log:                log,
		Config:             cfg,
		StoreDB:            storeDB,
		CacheDB:            cacheDB,
		Registry:           registry,
		PerformanceService: perfService,
		WatchlistRepo:      watchlistRepo,
		WatchlistService:   watchlistService,
		BackupService:      backupService,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Background jobs
	sched := scheduler.New(log)

	alertJob := scheduler.NewAlertCheckJob(watchlistService, log)
	if err := sched.AddJob(cfg.AlertSchedule, alertJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register alert check job")
	}

	healthJob := scheduler.NewHealthCheckJob([]*database.DB{storeDB, cacheDB}, log)
	if err := sched.AddJob("0 0 */6 * * *", healthJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register health check job")
	}

	if backupService != nil {
		backupJob := scheduler.NewBackupJob(backupService, cfg.Backup.RetentionDays, log)
		if err := sched.AddJob(cfg.Backup.Schedule, backupJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register backup job")
		}
	}

	sched.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
