// Command probed runs the instrumented demo HTTP service: every request is
// timed, counted, labeled, and logged, with tracing spans attached to the
// data endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pulseprobe/pulseprobe/internal/config"
	"github.com/pulseprobe/pulseprobe/internal/metrics"
	"github.com/pulseprobe/pulseprobe/internal/server"
	"github.com/pulseprobe/pulseprobe/internal/tracing"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadServer(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Tracing failure degrades to an untraced service, never a refusal to
	// start.
	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("failed to initialize tracing, continuing without it", zap.Error(err))
		tp = nil
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	reg := metrics.New()
	srv := server.New(cfg, reg, tp, logger)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}
