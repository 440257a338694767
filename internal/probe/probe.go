// Package probe performs single timed GET requests against the monitored
// service. All failure modes are folded into the Result rather than
// returned as errors.
package probe

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single probe when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Result captures the outcome of one probe attempt. Status is 0 when the
// request never produced a response (timeout, refused connection, DNS
// failure). Success is true iff a response arrived with a status below 400.
type Result struct {
	Status  int
	Elapsed time.Duration
	Success bool
}

// Prober issues timed GET requests. Safe for concurrent use.
type Prober struct {
	client *http.Client
}

// New creates a Prober with a per-request timeout. A non-positive timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{client: newClient(timeout)}
}

// NewWithClient builds a Prober around an existing client, used by tests.
func NewWithClient(client *http.Client) *Prober {
	if client == nil {
		client = newClient(DefaultTimeout)
	}
	return &Prober{client: client}
}

// Do issues one GET against url and never returns an error: transport
// failures become Result{Status: 0, Success: false}.
func (p *Prober) Do(ctx context.Context, url string) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Elapsed: elapsedSince(start)}
	}

	resp, err := p.client.Do(req)
	elapsed := elapsedSince(start)
	if err != nil {
		return Result{Elapsed: elapsed}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return Result{
		Status:  resp.StatusCode,
		Elapsed: elapsed,
		Success: resp.StatusCode < 400,
	}
}

// elapsedSince clamps at zero in case the wall clock stepped backwards.
func elapsedSince(start time.Time) time.Duration {
	if d := time.Since(start); d > 0 {
		return d
	}
	return 0
}

func newClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
