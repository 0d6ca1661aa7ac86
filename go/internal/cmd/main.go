package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub/go/internal/live"
	"github.com/hackhub/hackhub/go/internal/metrics"
	"github.com/hackhub/hackhub/go/internal/outbox"
	"github.com/hackhub/hackhub/go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	setupLogging()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := setupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()

	store, err := storage.NewDiskStore(cfg.MediaRoot, cfg.MediaBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up media storage")
	}

	metrics.Register()
	outbox.RegisterMetrics(prometheus.DefaultRegisterer)

	services := setupServices(pool, store, cfg)

	// Broker wiring is optional: without NATS the outbox still drains via
	// the noop publisher and the live feed is simply absent.
	var publisher outbox.EventPublisher = outbox.NoopPublisher{}
	var liveHandler *live.Handler
	if cfg.NATSURL != "" {
		jsPublisher, err := outbox.NewJetStreamPublisher(ctx, cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer jsPublisher.Close()
		publisher = jsPublisher

		manager := live.NewConnectionManager(live.DefaultConnectionConfig())
		go manager.Start(ctx)

		consumer, err := live.NewConsumer(ctx, jsPublisher.Conn(), manager, live.DefaultConsumerConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up live feed consumer")
		}
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("live feed consumer stopped")
			}
		}()

		liveHandler = live.NewHandler(manager)
	}

	workerCfg := outbox.DefaultWorkerConfig()
	workerCfg.PollInterval = cfg.OutboxPollInterval
	workerCfg.BatchSize = cfg.OutboxBatchSize
	worker := outbox.NewWorker(services.OutboxRepo, publisher, workerCfg, clockwork.NewRealClock())
	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox worker")
	}

	server := setupServer(cfg, services, store, liveHandler)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := worker.Stop(); err != nil {
		log.Error().Err(err).Msg("outbox worker shutdown failed")
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if getEnvAsBool("LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
