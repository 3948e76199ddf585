package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/archive"
	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/consumer"
	"github.com/uxbench/uxbench/internal/session"
	"github.com/uxbench/uxbench/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/recorder.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Strs("kafka_brokers", cfg.Kafka.Brokers).
		Str("clickhouse_addr", cfg.ClickHouse.Addr).
		Str("redis_addr", cfg.Redis.Addr).
		Int("batch_size", cfg.Archive.Size).
		Dur("flush_interval", cfg.Archive.FlushInterval).
		Msg("Configuration loaded")

	ch, err := storage.NewClickHouse(cfg.ClickHouse)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to ClickHouse")
	}
	defer ch.Close()
	log.Info().Msg("Connected to ClickHouse")

	// Finalized reports are read from the recorder's Redis store
	sessionStore := session.NewStore(cfg.Redis)
	if err := sessionStore.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer sessionStore.Close()
	log.Info().Msg("Connected to Redis")

	archiveProcessor := archive.NewProcessor(sessionStore, ch, cfg.Archive.Size, cfg.Archive.FlushInterval)

	// The archiver reads status in its own group so it sees every stop.
	cfg.Kafka.ConsumerGroup = cfg.Archive.ConsumerGroup

	kafkaConsumer, err := consumer.NewKafkaConsumer(cfg.Kafka, "status", archiveProcessor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go kafkaConsumer.Start(ctx)

	log.Info().Str("topic", cfg.Kafka.Topic("status")).Msg("Archiver started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()
	kafkaConsumer.Close()
	archiveProcessor.Stop()

	log.Info().Msg("Shutdown complete")
}
