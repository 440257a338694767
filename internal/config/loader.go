package config

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// Harness defaults mirror the documented run profile: 5 workers for 5
// minutes with a 10s probe timeout and 100ms between batches.
const (
	DefaultConcurrency = 5
	DefaultDuration    = 300 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultBatchDelay  = 100 * time.Millisecond
	DefaultListen      = ":8000"
)

// LoadHarness parses command-line arguments and an optional config file into
// a Harness configuration. Flags override file settings.
func LoadHarness(args []string) (*Harness, error) {
	cmd := newHarnessCommand()
	flagSet, err := parseArgs(cmd, args)
	if err != nil {
		return nil, err
	}

	cfg := &Harness{
		Endpoints:   []string{"/", "/api/data"},
		Concurrency: DefaultConcurrency,
		Duration:    DefaultDuration,
		BatchDelay:  DefaultBatchDelay,
		Timeout:     DefaultTimeout,
	}

	configPath := flagSet.Lookup("config").Value.String()
	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configPath
	}

	if err := applyHarnessFlags(cfg, flagSet); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadServer parses command-line arguments and an optional config file into
// a Server configuration.
func LoadServer(args []string) (*Server, error) {
	cmd := newServerCommand()
	flagSet, err := parseArgs(cmd, args)
	if err != nil {
		return nil, err
	}

	cfg := &Server{
		Listen:    DefaultListen,
		WorkMin:   100 * time.Millisecond,
		WorkMax:   500 * time.Millisecond,
		ErrorRate: 0.1,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}

	configPath := flagSet.Lookup("config").Value.String()
	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyServerFlags(cfg, flagSet); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseArgs(cmd *cobra.Command, args []string) (*pflag.FlagSet, error) {
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
	}
	return flagSet, nil
}
