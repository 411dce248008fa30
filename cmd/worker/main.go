// The worker is the engine's long-running process: it consumes listing
// observations from Kafka, keeps the listings store current, and runs the
// opportunity-detection pipeline on a fixed schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/config"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/messaging/kafka"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/interfaces/cli"
	ltypes "github.com/DemirSacirovic/serbian-estate-intelligence/pkg/types/listing"
)

const defaultMetricsAddr = ":9090"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: env-only)")
	metricsAddr := flag.String("metrics-addr", defaultMetricsAddr, "listen address for /metrics and /healthz")
	once := flag.Bool("once", false, "run a single pipeline pass and exit")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stack, err := cli.BuildStack(ctx, cfg, logger)
	if err != nil {
		logger.Error("infrastructure initialization failed", logging.Err(err))
		os.Exit(1)
	}
	defer stack.Close()

	if *once {
		if err := runPass(ctx, stack, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	srv := startMetricsServer(*metricsAddr, stack, logger)

	consumer := startConsumer(ctx, cfg, stack, logger)

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		scheduleLoop(ctx, cfg.Worker, stack, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", logging.String("signal", sig.String()))

	cancel()
	if consumer != nil {
		_ = consumer.Close()
	}

	grace := cfg.Worker.ShutdownGrace
	if grace <= 0 {
		grace = 30 * time.Second
	}
	select {
	case <-schedDone:
		logger.Info("scheduler stopped")
	case <-time.After(grace):
		logger.Warn("shutdown grace exceeded, forcing exit")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", logging.Err(err))
	}

	logger.Info("worker stopped")
}

// runPass executes one pipeline run plus stale-history maintenance.
func runPass(ctx context.Context, stack *cli.Stack, logger logging.Logger) error {
	now := time.Now()

	report, err := stack.Hunt.Run(ctx, now)
	if err != nil {
		logger.Error("pipeline run failed", logging.Err(err))
		return err
	}
	logger.Info("pipeline run finished",
		logging.Int("scanned", report.Scanned),
		logging.Int("opportunities", len(report.Opportunities)),
		logging.Int("desperate_sellers", len(report.DesperateSellers)),
	)

	closed, err := stack.Tracker.CloseStale(ctx, now)
	if err != nil {
		logger.Warn("stale-history sweep failed", logging.Err(err))
	} else if closed > 0 {
		logger.Info("stale histories closed", logging.Int("count", closed))
	}
	return nil
}

// scheduleLoop runs the pipeline on the configured interval until the
// context is cancelled.
func scheduleLoop(ctx context.Context, wcfg config.WorkerConfig, stack *cli.Stack, logger logging.Logger) {
	interval := wcfg.Interval
	if interval <= 0 {
		interval = config.DefaultWorkerInterval
	}

	if wcfg.RunOnStart {
		_ = runPass(ctx, stack, logger)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = runPass(ctx, stack, logger)
		}
	}
}

// startConsumer attaches the listing-observation consumer when Kafka is
// configured. Each consumed listing is upserted so the next scheduled pass
// sees it.
func startConsumer(ctx context.Context, cfg *config.Config, stack *cli.Stack, logger logging.Logger) *kafka.ListingConsumer {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}

	handler := func(ctx context.Context, l *ltypes.Listing) error {
		return stack.Listings.Upsert(ctx, l)
	}
	consumer, err := kafka.NewListingConsumer(cfg.Kafka, handler, logger)
	if err != nil {
		logger.Warn("listing consumer unavailable", logging.Err(err))
		return nil
	}

	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Warn("listing consumer stopped", logging.Err(err))
		}
	}()
	logger.Info("listing consumer started",
		logging.String("topic", kafka.TopicListingObserved))
	return consumer
}

// startMetricsServer serves the Prometheus registry and liveness probes.
func startMetricsServer(addr string, stack *cli.Stack, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", stack.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending
