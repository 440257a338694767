// Package middleware intercepts every request-response cycle of the
// monitored service to produce metrics and structured logs. It is the last
// line of defense against unhandled failures reaching the transport layer.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/pulseprobe/pulseprobe/internal/metrics"
)

// RequestIDHeader carries the per-request ULID back to the client.
const RequestIDHeader = "X-Request-ID"

// endpointUnmatched labels requests that hit no registered route, keeping
// the endpoint label cardinality bounded when clients probe random paths.
const endpointUnmatched = "unmatched"

// Observer wraps the dispatch of every request so that exactly one
// observation (method, endpoint, status, elapsed) is recorded per cycle,
// whether the handler returns normally or panics. On panic the failure is
// logged with full context and converted into a fixed 500 JSON response.
//
// The endpoint label is the route template (e.g. /users/:id), never the raw
// path, so label cardinality stays bounded by the registered routes.
func Observer(reg *metrics.Registry, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := ulid.Make().String()
		c.Writer.Header().Set(RequestIDHeader, requestID)

		defer func() {
			if rec := recover(); rec != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"detail": "Internal Server Error",
				})
				record(reg, log, c, requestID, http.StatusInternalServerError, elapsedSince(start))
				log.Error("error processing request",
					zap.String("request_id", requestID),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				return
			}
			record(reg, log, c, requestID, c.Writer.Status(), elapsedSince(start))
		}()

		c.Next()
	}
}

func record(reg *metrics.Registry, log *zap.Logger, c *gin.Context, requestID string, status int, elapsed time.Duration) {
	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = endpointUnmatched
	}
	method := c.Request.Method

	reg.ObserveRequest(method, endpoint, status, elapsed)

	log.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.String("latency", formatSeconds(elapsed)),
	)
}

// elapsedSince clamps at zero in case the wall clock is non-monotonic.
func elapsedSince(start time.Time) time.Duration {
	if d := time.Since(start); d > 0 {
		return d
	}
	return 0
}
