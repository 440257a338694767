// Package server assembles the monitored demo HTTP service: a gin engine
// with the instrumentation middleware, a traced work endpoint, and the
// Prometheus exposition route.
package server

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseprobe/pulseprobe/internal/config"
	"github.com/pulseprobe/pulseprobe/internal/metrics"
	"github.com/pulseprobe/pulseprobe/internal/middleware"
	"github.com/pulseprobe/pulseprobe/internal/tracing"
)

// errSimulatedFailure marks the deliberate failures of the demo work
// endpoint so spans and logs carry a stable cause.
var errSimulatedFailure = errors.New("simulated processing failure")

// Server is the monitored demo service.
type Server struct {
	cfg    *config.Server
	engine *gin.Engine
	log    *zap.Logger
	tp     *tracing.Provider

	mu  sync.Mutex
	rnd *rand.Rand
}

// New wires the engine. The metrics registry and tracing provider are
// injected so tests can observe the series the service produces.
func New(cfg *config.Server, reg *metrics.Registry, tp *tracing.Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Observer(reg, log))

	s := &Server{
		cfg:    cfg,
		engine: engine,
		log:    log,
		tp:     tp,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/api/data", s.handleData)
	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(reg.Handler()))

	return s
}

// Handler exposes the engine for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("server listening", zap.String("addr", s.cfg.Listen))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the pulseprobe monitoring demo"})
}

// handleData simulates a unit of traced work: a random processing delay
// inside a span, failing at the configured rate. Failure is an ordinary
// data path ending in a fixed 500 response, not a panic.
func (s *Server) handleData(c *gin.Context) {
	_, span := tracing.StartSpan(c.Request.Context(), s.tp.Tracer(), "data_processing")

	time.Sleep(s.workDelay())

	if s.roll() < s.cfg.ErrorRate {
		tracing.EndSpan(span, errSimulatedFailure)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"detail": "Internal Server Error",
		})
		return
	}

	tracing.EndSpan(span, nil)
	c.JSON(http.StatusOK, gin.H{"data": []int{1, 2, 3, 4, 5}})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) workDelay() time.Duration {
	span := s.cfg.WorkMax - s.cfg.WorkMin
	if span <= 0 {
		return s.cfg.WorkMin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.WorkMin + time.Duration(s.rnd.Int63n(int64(span)))
}

func (s *Server) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
