package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/pulseprobe/pulseprobe/internal/harness"
)

// ProgressReporter displays real-time progress updates while a run is live.
type ProgressReporter struct {
	agg      *harness.Aggregator
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
	start    time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(agg *harness.Aggregator, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		agg:      agg,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
		start:    time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			elapsed := time.Since(p.start)
			stats := p.agg.Summary(elapsed)
			fmt.Fprintf(p.writer, "\rRequests: %d | Successful: %d | Failed: %d | RPS: %.1f",
				stats.Total, stats.Successful, stats.Failed, stats.RequestsPerSec)
		case <-p.done:
			return
		}
	}
}
