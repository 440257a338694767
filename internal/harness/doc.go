// Package harness generates synthetic concurrent load against the monitored
// service and aggregates latency and success statistics.
//
// # Dispatcher
//
// The [Dispatcher] submits batches of exactly Workers concurrent probes,
// waits for every probe in the batch to complete, then pauses briefly before
// the next batch. The run is bounded by wall-clock duration, not request
// count, which yields a self-throttling load pattern with at most Workers
// outstanding requests:
//
//	agg := harness.NewAggregator()
//	d, err := harness.New(harness.Options{
//		Workers:   5,
//		Duration:  5 * time.Minute,
//		BaseURL:   "http://localhost:8000",
//		Endpoints: []string{"/", "/api/data"},
//		Prober:    probe.New(10 * time.Second),
//	}, agg)
//	result := d.Run(ctx)
//	stats := agg.Summary(result.Duration)
//
// # Aggregator
//
// The [Aggregator] folds each probe result into running statistics in O(1)
// time and memory. Derived values (average, success rate, percentiles) are
// computed once at summary time, never per sample. Folding is commutative
// and associative, so worker completion order does not affect the result.
//
// An empty run reports no data: [Stats.HasSamples] is false and the minimum
// latency holds a +inf sentinel rather than a misleading zero.
package harness
