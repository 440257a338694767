// Package config defines and loads the configuration for both binaries:
// the load harness and the monitored demo service.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Harness configures a load-generation run.
type Harness struct {
	TargetURL   string        `mapstructure:"target"`
	Endpoints   []string      `mapstructure:"endpoints"`
	Concurrency int           `mapstructure:"concurrency"`
	Duration    time.Duration `mapstructure:"duration"`
	BatchDelay  time.Duration `mapstructure:"batch_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Rate        int           `mapstructure:"rate"`
	JSONOutput  bool          `mapstructure:"json_output"`
	LogRequests bool          `mapstructure:"log_requests"`
	ConfigFile  string        `mapstructure:"-"`
}

// Server configures the monitored demo service.
type Server struct {
	Listen    string        `mapstructure:"listen"`
	WorkMin   time.Duration `mapstructure:"work_min"`
	WorkMax   time.Duration `mapstructure:"work_max"`
	ErrorRate float64       `mapstructure:"error_rate"`
	Tracing   TracingConfig `mapstructure:"tracing"`
}

// TracingConfig configures the OTLP span exporter. An empty endpoint (and no
// OTEL_EXPORTER_OTLP_ENDPOINT in the environment) disables tracing.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// ValidationError aggregates every configuration issue found.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Harness) Validate() error {
	var issues []string

	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if c.BatchDelay < 0 {
		issues = append(issues, "batch-delay must be >= 0")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	for idx, ep := range c.Endpoints {
		if !strings.HasPrefix(strings.TrimSpace(ep), "/") {
			issues = append(issues, fmt.Sprintf("endpoints[%d]: path %q must start with /", idx, ep))
		}
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (c Server) Validate() error {
	var issues []string

	if strings.TrimSpace(c.Listen) == "" {
		issues = append(issues, "listen address is required")
	}
	if c.WorkMin < 0 {
		issues = append(issues, "work-min must be >= 0")
	}
	if c.WorkMax < c.WorkMin {
		issues = append(issues, "work-max must be >= work-min")
	}
	if c.ErrorRate < 0 || c.ErrorRate > 1 {
		issues = append(issues, "error-rate must be between 0.0 and 1.0")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing.sample_rate must be between 0.0 and 1.0")
	}
	if p := strings.ToLower(strings.TrimSpace(c.Tracing.Protocol)); p != "" && p != "grpc" && p != "http" {
		issues = append(issues, fmt.Sprintf("tracing.protocol must be 'grpc' or 'http', got %q", c.Tracing.Protocol))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
