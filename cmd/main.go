package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/haxsite/internal/api"
	"github.com/bilgisen/haxsite/internal/cache"
	"github.com/bilgisen/haxsite/internal/config"
	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/metrics"
	"github.com/bilgisen/haxsite/internal/middleware"
	"github.com/bilgisen/haxsite/internal/site"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
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

	store, err := cache.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}
	defer func() {
		log.Info().Msg("Closing snapshot store...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	m := metrics.New(nil)
	analyzer := site.NewAnalyzer(cfg, store, m)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, api.NewHandlers(store, analyzer), m)

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Bool("redis", cfg.UseRedis()).
			Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
