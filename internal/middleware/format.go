package middleware

import (
	"strconv"
	"time"
)

// formatSeconds renders a latency as seconds with 4 decimal places, the
// format operators grep for in the request log.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 4, 64) + "s"
}
