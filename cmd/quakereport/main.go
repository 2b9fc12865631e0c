package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/quake-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-report/internal/adapter/kafka"
	"github.com/couchcryptid/quake-report/internal/adapter/usgs"
	"github.com/couchcryptid/quake-report/internal/config"
	"github.com/couchcryptid/quake-report/internal/observability"
	"github.com/couchcryptid/quake-report/internal/pipeline"
	"github.com/couchcryptid/quake-report/internal/render"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	palette, err := render.LoadPalette(cfg.PaletteFile)
	if err != nil {
		logger.Error("failed to load palette", "error", err)
		os.Exit(1)
	}

	query := usgs.Query{
		EventType:    "earthquake",
		OrderBy:      cfg.OrderBy,
		MinMagnitude: cfg.MinMagnitude,
		Limit:        cfg.Limit,
	}
	feedURL, err := query.URL(cfg.USGSBaseURL)
	if err != nil {
		logger.Error("failed to build feed url", "error", err)
		os.Exit(1)
	}

	client := usgs.NewClient(cfg.USGSTimeout, metrics, logger)
	source := usgs.NewSource(client, feedURL)
	transformer := pipeline.NewTransformer(cfg.Presenter(), logger)

	var loader pipeline.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, transformer, loader, logger, metrics, pipeline.Options{
		Interval:  cfg.PollInterval,
		BatchSize: cfg.BatchSize,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, palette, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("polling usgs feed", "url", feedURL, "interval", cfg.PollInterval)
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
