package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newHarnessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pulseprobe",
		Short:         "Generate synthetic load against an HTTP service and report latency statistics",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)

	flags := cmd.Flags()
	flags.String("target", "", "Base URL of the service under load")
	flags.StringSlice("endpoint", nil, "Endpoint path probed uniformly at random (repeatable)")
	flags.IntP("concurrency", "c", DefaultConcurrency, "Number of probes submitted per batch")
	flags.DurationP("duration", "d", DefaultDuration, "How long to run (e.g. 30s, 5m)")
	flags.Duration("batch-delay", DefaultBatchDelay, "Pause between batches")
	flags.Duration("timeout", DefaultTimeout, "Per-probe timeout")
	flags.IntP("rate", "r", 0, "Requests per second cap (0 means unlimited)")
	flags.Bool("json-output", false, "Emit the final summary as JSON")
	flags.Bool("log-requests", false, "Log every probe result")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	return cmd
}

func newServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "probed",
		Short:         "Run the instrumented demo HTTP service",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)

	flags := cmd.Flags()
	flags.String("listen", DefaultListen, "Address to serve on")
	flags.Duration("work-min", 100*time.Millisecond, "Lower bound of simulated work on /api/data")
	flags.Duration("work-max", 500*time.Millisecond, "Upper bound of simulated work on /api/data")
	flags.Float64("error-rate", 0.1, "Probability that /api/data fails")
	flags.String("tracing-endpoint", "", "OTLP endpoint for span export (empty disables tracing)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.String("tracing-service-name", "", "service.name resource attribute")
	flags.Float64("tracing-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")
	flags.Bool("tracing-insecure", false, "Disable TLS towards the OTLP endpoint")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	return cmd
}

// applyHarnessFlags copies explicitly set flags over file-provided values.
func applyHarnessFlags(cfg *Harness, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = val
	}
	if fs.Changed("endpoint") {
		val, err := fs.GetStringSlice("endpoint")
		if err != nil {
			return err
		}
		cfg.Endpoints = val
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("batch-delay") {
		val, err := fs.GetDuration("batch-delay")
		if err != nil {
			return err
		}
		cfg.BatchDelay = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-requests") {
		val, err := fs.GetBool("log-requests")
		if err != nil {
			return err
		}
		cfg.LogRequests = val
	}
	return nil
}

func applyServerFlags(cfg *Server, fs *pflag.FlagSet) error {
	if fs.Changed("listen") {
		val, err := fs.GetString("listen")
		if err != nil {
			return err
		}
		cfg.Listen = val
	}
	if fs.Changed("work-min") {
		val, err := fs.GetDuration("work-min")
		if err != nil {
			return err
		}
		cfg.WorkMin = val
	}
	if fs.Changed("work-max") {
		val, err := fs.GetDuration("work-max")
		if err != nil {
			return err
		}
		cfg.WorkMax = val
	}
	if fs.Changed("error-rate") {
		val, err := fs.GetFloat64("error-rate")
		if err != nil {
			return err
		}
		cfg.ErrorRate = val
	}
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = val
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
