// Command pulseprobe generates synthetic concurrent traffic against an HTTP
// service and reports aggregated latency and success statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/pulseprobe/pulseprobe/internal/config"
	"github.com/pulseprobe/pulseprobe/internal/harness"
	"github.com/pulseprobe/pulseprobe/internal/output"
	"github.com/pulseprobe/pulseprobe/internal/probe"
)

const progressInterval = time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadHarness(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogRequests)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	agg := harness.NewAggregator()

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		// Burst equal to the rate to smooth pacing across a batch.
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Rate)
	}

	dispatcher, err := harness.New(harness.Options{
		Workers:    cfg.Concurrency,
		Duration:   cfg.Duration,
		BatchDelay: cfg.BatchDelay,
		BaseURL:    cfg.TargetURL,
		Endpoints:  cfg.Endpoints,
		Prober:     probe.New(cfg.Timeout),
		Limiter:    limiter,
		Logger:     logger,
	}, agg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting load test",
		zap.String("target", cfg.TargetURL),
		zap.Int("workers", cfg.Concurrency),
		zap.Duration("duration", cfg.Duration),
	)

	var progress *output.ProgressReporter
	if !cfg.JSONOutput {
		progress = output.NewProgressReporter(agg, progressInterval, os.Stdout)
		progress.Start()
	}

	result := dispatcher.Run(ctx)

	if progress != nil {
		progress.Stop()
		fmt.Fprintln(os.Stdout)
	}

	stats := agg.Summary(result.Duration)
	if cfg.JSONOutput {
		return output.PrintJSONReport(os.Stdout, stats)
	}
	output.PrintReport(os.Stdout, stats)
	return nil
}

// newLogger builds a console zap logger; --log-requests lowers the level so
// per-probe lines become visible.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}
