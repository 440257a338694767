// Package output renders harness results for operators: a final summary
// block, an optional JSON report, and a live progress line.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pulseprobe/pulseprobe/internal/harness"
)

// PrintReport outputs the human-readable summary block. Latencies are
// rendered as seconds with 4 decimal places; an empty run prints "no data"
// instead of the min/max sentinels.
func PrintReport(w io.Writer, stats harness.Stats) {
	fmt.Fprintln(w, "\n=== Load Test Summary ===")
	fmt.Fprintf(w, "Total Requests:    %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successful)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failed)
	fmt.Fprintf(w, "Success Rate:      %.2f%%\n", stats.SuccessRate)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", stats.RequestsPerSec)

	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Average:         %s\n", seconds(stats.AvgSeconds, stats))
	fmt.Fprintf(w, "  Min:             %s\n", seconds(stats.MinSeconds, stats))
	fmt.Fprintf(w, "  Max:             %s\n", seconds(stats.MaxSeconds, stats))
	fmt.Fprintf(w, "  P50:             %s\n", seconds(stats.P50Seconds, stats))
	fmt.Fprintf(w, "  P90:             %s\n", seconds(stats.P90Seconds, stats))
	fmt.Fprintf(w, "  P99:             %s\n", seconds(stats.P99Seconds, stats))
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, stats harness.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func seconds(v float64, stats harness.Stats) string {
	if !stats.HasSamples() {
		return "no data"
	}
	return fmt.Sprintf("%.4fs", v)
}
