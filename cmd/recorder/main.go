package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/consumer"
	"github.com/uxbench/uxbench/internal/handler"
	"github.com/uxbench/uxbench/internal/processor"
	"github.com/uxbench/uxbench/internal/producer"
	"github.com/uxbench/uxbench/internal/session"
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
	if !cfg.Log.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	log.Info().
		Strs("kafka_brokers", cfg.Kafka.Brokers).
		Str("redis_addr", cfg.Redis.Addr).
		Int("http_port", cfg.Server.HTTPPort).
		Int64("idle_threshold_ms", cfg.Engine.IdleThresholdMs).
		Msg("Configuration loaded")

	var (
		store   processor.Store
		history handler.ReportHistory
	)
	if cfg.Redis.Addr != "" {
		sessionStore := session.NewStore(cfg.Redis)
		if err := sessionStore.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis, sessions will not be persisted")
			sessionStore.Close()
		} else {
			defer sessionStore.Close()
			store = sessionStore
			history = sessionStore
			log.Info().Msg("Connected to Redis")
		}
	}

	var publisher processor.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := producer.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka producer")
		}
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	eventProcessor := processor.NewEventProcessor(cfg.Engine, store, publisher)
	if err := eventProcessor.Restore(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to restore session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var kafkaConsumer *consumer.KafkaConsumer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer, err = consumer.NewKafkaConsumer(cfg.Kafka, "events", eventProcessor)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		go kafkaConsumer.Start(ctx)
	}

	h := handler.NewHTTPHandler(eventProcessor, history)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Recorder started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}

	cancel()
	if kafkaConsumer != nil {
		kafkaConsumer.Close()
	}
	// A recording in progress stays in the store and is restored on restart.
	eventProcessor.Close()

	log.Info().Msg("Shutdown complete")
}
