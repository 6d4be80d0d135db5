package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/skoolgrab/scanner/internal/api"
	"github.com/skoolgrab/scanner/internal/config"
	"github.com/skoolgrab/scanner/internal/enrich"
	"github.com/skoolgrab/scanner/internal/license"
	"github.com/skoolgrab/scanner/internal/rescan"
	"github.com/skoolgrab/scanner/internal/scanner"
	"github.com/skoolgrab/scanner/internal/scheduler"
	"github.com/skoolgrab/scanner/internal/store"
	"github.com/skoolgrab/scanner/internal/worker"
	"github.com/skoolgrab/scanner/pkg/logger"
	"github.com/skoolgrab/scanner/pkg/nats"
	"github.com/skoolgrab/scanner/pkg/provider"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	logger.Init("scanner", logger.IsDev())
	log := logger.Log

	natsClient, err := nats.New(cfg.NatsURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer natsClient.Close()

	var snapshots store.SnapshotStore
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedis(cfg.RedisURL, cfg.SnapshotTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		snapshots = redisStore
		log.Info().Msg("using redis snapshot store")
	} else {
		memStore := store.NewMemory()
		snapshots = memStore
		log.Info().Msg("REDIS_URL not set, using in-memory snapshot store")

		janitor, err := scheduler.NewJanitor(memStore, cfg.SnapshotTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create snapshot janitor")
		}
		if err := janitor.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start snapshot janitor")
		}
		defer janitor.Stop()
	}

	var gate license.Gate = license.Open{}
	if cfg.LicenseKey != "" {
		gate = license.NewKeyGate(cfg.LicenseKey)
	}

	dispatcher := scanner.NewDispatcher(provider.NewDefaultRegistry())
	enricher := enrich.New(cfg.EnrichTimeout)

	scanWorker := worker.NewScanWorker(natsClient, dispatcher, snapshots, enricher, gate)
	rescanWorker := worker.NewRescanWorker(natsClient, rescan.Config{
		Debounce:   cfg.RescanDebounce,
		ClickDelay: cfg.ClickDelay,
	})
	dlqHandler := nats.NewDLQHandler(natsClient)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             10 * 1024 * 1024,
	})
	api.NewHandler(scanWorker, snapshots, nats.NewPublisher(natsClient)).SetupRoutes(app)
	go func() {
		addr := ":" + cfg.HTTPPort
		log.Info().Str("addr", addr).Msg("HTTP API server starting")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
	}()

	log.Info().
		Str("nats", cfg.NatsURL).
		Int("workers", cfg.WorkerCount).
		Msg("scanner started")

	go func() {
		if err := dlqHandler.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("DLQ handler error")
		}
	}()

	go func() {
		if err := rescanWorker.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("rescan worker error")
		}
	}()

	if err := scanWorker.RunPool(ctx, cfg.WorkerCount); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("scan worker error")
	}
}
