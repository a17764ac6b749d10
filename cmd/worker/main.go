package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/banben/yugabyte-db/internal/activity"
	"github.com/banben/yugabyte-db/internal/config"
	"github.com/banben/yugabyte-db/internal/db"
	"github.com/banben/yugabyte-db/internal/logging"
	"github.com/banben/yugabyte-db/internal/metrics"
	"github.com/banben/yugabyte-db/internal/workflow"
)

const taskQueue = "platform-tasks"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	platformPool, err := db.NewPlatformPool(ctx, cfg.PlatformDatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to platform database")
	}
	defer platformPool.Close()

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, taskQueue, worker.Options{})

	// Register activities
	platformDBActivities := activity.NewPlatformDB(platformPool)
	w.RegisterActivity(platformDBActivities)

	snapshotActivities := activity.NewSnapshot(logger, cfg.SnapshotDir)
	w.RegisterActivity(snapshotActivities)

	s3Activities := activity.NewS3Store(logger, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey)
	w.RegisterActivity(s3Activities)

	// Register workflows
	w.RegisterWorkflow(workflow.BackupUniverseWorkflow)
	w.RegisterWorkflow(workflow.MultiTableBackupWorkflow)

	if cfg.MetricsListenAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsListenAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", taskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}
