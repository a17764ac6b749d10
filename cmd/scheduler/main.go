package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	temporalclient "go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	"github.com/banben/yugabyte-db/internal/config"
	"github.com/banben/yugabyte-db/internal/core"
	"github.com/banben/yugabyte-db/internal/db"
	"github.com/banben/yugabyte-db/internal/logging"
	"github.com/banben/yugabyte-db/internal/metrics"
	"github.com/banben/yugabyte-db/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("scheduler"); err != nil {
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

	metrics.RegisterPgxPoolMetrics(platformPool)

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	services := core.NewServices(platformPool)
	engine := scheduler.NewTemporalEngine(tc)

	sched := scheduler.New(services.Schedule, services.Execution, engine, logger, cfg.SchedulerInterval)
	sched.Start(ctx)

	metricsSrv := metrics.NewServer(cfg.MetricsListenAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gctx.Done():
		}

		logger.Info().Msg("shutting down scheduler")
		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler daemon failed")
	}
}
