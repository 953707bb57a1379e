package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/verdantpress/blogapi/internal/api"
	"github.com/verdantpress/blogapi/internal/blob"
	"github.com/verdantpress/blogapi/internal/cache"
	"github.com/verdantpress/blogapi/internal/config"
	"github.com/verdantpress/blogapi/internal/directory"
	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/middleware"
	"github.com/verdantpress/blogapi/internal/publish"
	"github.com/verdantpress/blogapi/internal/query"
	"github.com/verdantpress/blogapi/internal/store"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	// Open the metadata store
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open metadata store")
	}
	defer func() {
		log.Info().Msg("Closing metadata store...")
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing metadata store")
		}
	}()

	// Initialize the author cache; fall back to in-memory when Redis is
	// not reachable so the service still comes up in development.
	var authorCache cache.AuthorCache
	authorCache, err = cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory author cache")
		authorCache = cache.NewMockAuthorCache()
	}
	defer func() {
		if err := authorCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing author cache")
		}
	}()

	// Initialize the blob store
	var blobs blob.Store
	if cfg.R2Endpoint != "" {
		blobs, err = blob.NewS3Store(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize blob store")
		}
	} else {
		log.Warn().Msg("R2_ENDPOINT not set, using in-memory blob store")
		blobs = blob.NewMockStore()
	}

	// Wire the pipeline
	authors := directory.New(db, authorCache, cfg.AuthorCacheTTL)
	orchestrator := publish.NewOrchestrator(db, authors, blobs, publish.Options{
		UploadTimeout: cfg.UploadTimeout,
		ImageFolder:   cfg.ImageFolder,
	})
	engine := query.NewEngine(db, authors)

	// Start the scheduled-publish sweeper
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go publish.NewSweeper(db, cfg.SweepInterval).Run(sweepCtx)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    int(cfg.MaxImageSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New()) // Recover from panics
	app.Use(middleware.RequestLogger())

	// Setup API routes
	handlers := api.NewHandlers(cfg, orchestrator, engine, authors)
	api.SetupRoutes(app, handlers, cfg.AdminAPIKey)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopSweep()

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
