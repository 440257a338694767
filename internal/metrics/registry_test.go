package metrics_test

import (
	"testing"
	"time"

	"github.com/pulseprobe/pulseprobe/internal/metrics"
)

func gatherCounts(t *testing.T, reg *metrics.Registry) (map[string]float64, map[string]uint64) {
	t.Helper()
	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatal(err)
	}

	counts := map[string]float64{}
	histCounts := map[string]uint64{}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			key := fam.GetName()
			for _, l := range m.GetLabel() {
				key += "|" + l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil && fam.GetName() == "http_requests_total":
				counts[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				histCounts[key] = m.GetHistogram().GetSampleCount()
			}
		}
	}
	return counts, histCounts
}

func TestObserveRequestCountsPerLabelSet(t *testing.T) {
	reg := metrics.New()

	for i := 0; i < 7; i++ {
		reg.ObserveRequest("GET", "/api/data", 200, 50*time.Millisecond)
	}
	reg.ObserveRequest("GET", "/api/data", 500, 10*time.Millisecond)
	reg.ObserveRequest("GET", "/", 200, time.Millisecond)

	counts, histCounts := gatherCounts(t, reg)

	if got := counts["http_requests_total|endpoint=/api/data|http_status=200|method=GET"]; got != 7 {
		t.Errorf("expected counter 7 for (GET,/api/data,200), got %g", got)
	}
	if got := counts["http_requests_total|endpoint=/api/data|http_status=500|method=GET"]; got != 1 {
		t.Errorf("expected counter 1 for (GET,/api/data,500), got %g", got)
	}

	// Histogram is keyed without status: 8 observations for /api/data.
	if got := histCounts["http_request_duration_seconds|endpoint=/api/data|method=GET"]; got != 8 {
		t.Errorf("expected 8 latency observations for /api/data, got %d", got)
	}
	if got := histCounts["http_request_duration_seconds|endpoint=/|method=GET"]; got != 1 {
		t.Errorf("expected 1 latency observation for /, got %d", got)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.ObserveRequest("GET", "/", 200, time.Millisecond)

	counts, _ := gatherCounts(t, b)
	if len(counts) != 0 {
		t.Fatalf("registries leaked state between instances: %v", counts)
	}
}
