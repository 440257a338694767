package harness_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulseprobe/pulseprobe/internal/harness"
	"github.com/pulseprobe/pulseprobe/internal/probe"
)

// TestDispatcherAgainstStubService exercises the full path: dispatcher,
// real prober, real HTTP stub answering 200 after 5ms.
func TestDispatcherAgainstStubService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	agg := harness.NewAggregator()
	d, err := harness.New(harness.Options{
		Workers:    5,
		Duration:   time.Second,
		BatchDelay: 100 * time.Millisecond,
		BaseURL:    srv.URL,
		Endpoints:  []string{"/", "/api/data"},
		Prober:     probe.New(5 * time.Second),
	}, agg)
	if err != nil {
		t.Fatal(err)
	}

	result := d.Run(context.Background())
	stats := agg.Summary(result.Duration)

	if stats.Total <= 0 {
		t.Fatal("expected probes against the stub service")
	}
	if stats.Total%5 != 0 {
		t.Fatalf("total %d must be a multiple of the pool size", stats.Total)
	}
	if stats.Failed != 0 {
		t.Fatalf("always-200 stub must not yield failures: %+v", stats)
	}
	if stats.SuccessRate != 100 {
		t.Fatalf("expected 100%% success rate, got %g", stats.SuccessRate)
	}
	if !stats.HasSamples() || stats.MinLatency < 5*time.Millisecond {
		t.Fatalf("latency should include the stub's 5ms delay: %+v", stats)
	}
}
