package harness

import (
	"math"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/pulseprobe/pulseprobe/internal/probe"
)

// noSample is the initial minimum latency. It survives into Stats for an
// empty run so callers can distinguish "no data" from a real latency.
const noSample = time.Duration(math.MaxInt64)

// Aggregator folds probe results into running statistics. Each fold is O(1)
// in time and memory; raw samples are never retained. Folding is
// commutative, so results from concurrent workers may arrive in any order.
type Aggregator struct {
	mu        sync.Mutex
	hist      *hdrhistogram.Histogram
	successes int64
	failures  int64
	sum       time.Duration
	min       time.Duration
	max       time.Duration
}

// Stats is a finalized snapshot of the accumulated counters.
type Stats struct {
	Total       int64   `json:"total"`
	Successful  int64   `json:"successful"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"success_rate"`

	AvgLatency time.Duration `json:"-"`
	MinLatency time.Duration `json:"-"`
	MaxLatency time.Duration `json:"-"`
	P50Latency time.Duration `json:"-"`
	P90Latency time.Duration `json:"-"`
	P99Latency time.Duration `json:"-"`
	Duration   time.Duration `json:"-"`

	// JSON-friendly second fields, 0 when there are no samples.
	AvgSeconds     float64 `json:"avg_duration_seconds"`
	MinSeconds     float64 `json:"min_duration_seconds"`
	MaxSeconds     float64 `json:"max_duration_seconds"`
	P50Seconds     float64 `json:"p50_duration_seconds"`
	P90Seconds     float64 `json:"p90_duration_seconds"`
	P99Seconds     float64 `json:"p99_duration_seconds"`
	DurationSec    float64 `json:"duration_seconds"`
	RequestsPerSec float64 `json:"requests_per_sec"`
}

// HasSamples reports whether any result was folded. When false, MinLatency
// holds its +inf sentinel and must not be read as a latency.
func (s Stats) HasSamples() bool {
	return s.Total > 0
}

func NewAggregator() *Aggregator {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Aggregator{
		hist: h,
		min:  noSample,
	}
}

// Fold incorporates one probe result.
func (a *Aggregator) Fold(res probe.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if res.Success {
		a.successes++
	} else {
		a.failures++
	}

	a.sum += res.Elapsed
	if res.Elapsed < a.min {
		a.min = res.Elapsed
	}
	if res.Elapsed > a.max {
		a.max = res.Elapsed
	}

	us := res.Elapsed.Microseconds()
	if us < a.hist.LowestTrackableValue() {
		us = a.hist.LowestTrackableValue()
	}
	if us > a.hist.HighestTrackableValue() {
		us = a.hist.HighestTrackableValue()
	}
	_ = a.hist.RecordValue(us)
}

// Summary computes the final report from the accumulated counters only.
// Derived fields are 0 for an empty run, except MinLatency which keeps its
// +inf sentinel.
func (a *Aggregator) Summary(elapsed time.Duration) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := a.successes + a.failures
	stats := Stats{
		Total:      total,
		Successful: a.successes,
		Failed:     a.failures,
		MinLatency: a.min,
		MaxLatency: a.max,
		Duration:   elapsed,
	}

	if total > 0 {
		stats.AvgLatency = time.Duration(int64(a.sum) / total)
		stats.SuccessRate = float64(a.successes) / float64(total) * 100
		stats.P50Latency = time.Duration(a.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(a.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(a.hist.ValueAtQuantile(99)) * time.Microsecond

		stats.AvgSeconds = stats.AvgLatency.Seconds()
		stats.MinSeconds = stats.MinLatency.Seconds()
		stats.MaxSeconds = stats.MaxLatency.Seconds()
		stats.P50Seconds = stats.P50Latency.Seconds()
		stats.P90Seconds = stats.P90Latency.Seconds()
		stats.P99Seconds = stats.P99Latency.Seconds()
	}

	stats.DurationSec = elapsed.Seconds()
	if elapsed > 0 && total > 0 {
		stats.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	return stats
}
