package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/haxsite/internal/cache"
	"github.com/bilgisen/haxsite/internal/config"
	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/metrics"
	"github.com/bilgisen/haxsite/internal/site"
	"github.com/bilgisen/haxsite/internal/storage"
)

// Analyzes one site and publishes a static page for it to STATIC_DIR and,
// when R2 is configured, to the R2 bucket.
//
//	web <site url>
func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: true,
	}); err != nil {
		panic(err)
	}
	log := logger.Get()

	input := os.Getenv("SITE_URL")
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: web <site url>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local, err := storage.NewLocalStorage(cfg.StaticDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize local storage")
	}
	publisher := storage.MultiPublisher{local}
	if cfg.UseR2() {
		r2, err := storage.NewR2Storage(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
		}
		publisher = append(publisher, r2)
	}

	analyzer := site.NewAnalyzer(cfg, cache.NewMemoryStore(), metrics.New(nil))
	snap, err := analyzer.Analyze(ctx, input)
	if err != nil {
		log.Fatal().Err(err).Str("input", input).Msg("Site analysis failed")
	}

	locations, err := storage.Export(ctx, publisher, snap)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	log.Info().
		Str("site", snap.Site.Name).
		Int("items", len(snap.Items)).
		Strs("locations", locations).
		Msg("Export finished")
}
