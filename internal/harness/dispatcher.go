package harness

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pulseprobe/pulseprobe/internal/probe"
)

// Prober executes one timed GET and reports the outcome as data.
type Prober interface {
	Do(ctx context.Context, url string) probe.Result
}

// Options configure the Dispatcher.
type Options struct {
	Workers    int           // probes per batch (default 5)
	Duration   time.Duration // overall run deadline (default 300s)
	BatchDelay time.Duration // pause between batches (default 100ms)
	BaseURL    string        // target service base URL (required)
	Endpoints  []string      // endpoint paths, picked uniformly at random
	Prober     Prober        // probe executor (required)
	Limiter    *rate.Limiter // optional RPS cap, nil means unlimited
	Logger     *zap.Logger   // per-probe logging, nil disables
}

// Result captures one completed run.
type Result struct {
	Batches  int64
	Duration time.Duration
}

func (o *Options) normalize() {
	if o.Workers <= 0 {
		o.Workers = 5
	}
	if o.Duration <= 0 {
		o.Duration = 300 * time.Second
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = 100 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Dispatcher drives batched concurrent probes against a deadline and folds
// every result into a shared Aggregator.
type Dispatcher struct {
	opt    Options
	picker *targetPicker
	agg    *Aggregator
}

// New validates the target set and builds a Dispatcher around agg.
func New(opt Options, agg *Aggregator) (*Dispatcher, error) {
	opt.normalize()
	picker, err := newTargetPicker(opt.BaseURL, opt.Endpoints)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{opt: opt, picker: picker, agg: agg}, nil
}

// Run submits batches of exactly Workers probes until the wall-clock
// deadline passes. Each batch drains completely before the next one starts,
// so outstanding requests never exceed Workers. A probe's transport failure
// is folded as an ordinary failed result, never aborting the run. The batch
// in flight when the deadline passes is allowed to finish.
func (d *Dispatcher) Run(ctx context.Context) Result {
	start := time.Now()
	deadline := start.Add(d.opt.Duration)
	var batches int64

	for ctx.Err() == nil && time.Now().Before(deadline) {
		var wg sync.WaitGroup
		wg.Add(d.opt.Workers)
		for i := 0; i < d.opt.Workers; i++ {
			go func() {
				defer wg.Done()
				d.runProbe(ctx)
			}()
		}
		wg.Wait()
		batches++

		if !time.Now().Before(deadline) {
			break
		}
		select {
		case <-time.After(d.opt.BatchDelay):
		case <-ctx.Done():
		}
	}

	return Result{Batches: batches, Duration: time.Since(start)}
}

func (d *Dispatcher) runProbe(ctx context.Context) {
	if d.opt.Limiter != nil {
		if err := d.opt.Limiter.Wait(ctx); err != nil {
			// Cancelled while pacing: count the slot as failed so the
			// batch accounting stays whole.
			d.agg.Fold(probe.Result{})
			d.opt.Logger.Warn("probe slot cancelled while pacing", zap.Error(err))
			return
		}
	}

	target := d.picker.pick()
	res := d.opt.Prober.Do(ctx, target)
	d.agg.Fold(res)

	if res.Success {
		d.opt.Logger.Debug("probe complete",
			zap.String("target", target),
			zap.Int("status", res.Status),
			zap.Duration("elapsed", res.Elapsed),
		)
	} else {
		d.opt.Logger.Warn("probe failed",
			zap.String("target", target),
			zap.Int("status", res.Status),
			zap.Duration("elapsed", res.Elapsed),
		)
	}
}
