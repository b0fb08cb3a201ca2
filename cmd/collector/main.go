package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/weather-collector/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-collector/internal/adapter/kafka"
	"github.com/couchcryptid/weather-collector/internal/adapter/nws"
	"github.com/couchcryptid/weather-collector/internal/adapter/s3store"
	"github.com/couchcryptid/weather-collector/internal/config"
	"github.com/couchcryptid/weather-collector/internal/domain"
	"github.com/couchcryptid/weather-collector/internal/observability"
	"github.com/couchcryptid/weather-collector/internal/pipeline"
	"github.com/couchcryptid/weather-collector/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single collection pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := s3store.New(storeCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize object store", "error", err)
		os.Exit(1)
	}

	source := nws.NewClient(cfg.NWSBaseURL, cfg.NWSUserAgent, cfg.NWSTimeout, logger)
	collector := pipeline.NewCollector(source, logger, metrics)

	// Record feed is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.RecordPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("record feed enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("record feed disabled")
	}

	p := pipeline.New(collector, store, publisher, domain.DefaultRegions,
		cfg.RegionPacing, logger, metrics)

	if *once {
		summary, runErr := p.Run(ctx)
		logger.Info("single-run mode finished",
			"run_id", summary.RunID,
			"processed", summary.ProcessedCount,
			"failed", summary.FailedCount)
		closePublisher(kafkaPublisher, logger)
		if runErr != nil {
			logger.Error("collection run cut short", "error", runErr)
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := scheduler.New(p, cfg.CollectInterval, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closePublisher(kafkaPublisher, logger)

	logger.Info("shutdown complete")
}

func closePublisher(p *kafkaadapter.Publisher, logger *slog.Logger) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Error("kafka publisher close error", "error", err)
	}
}
