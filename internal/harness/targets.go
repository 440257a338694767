package harness

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"
)

// targetPicker selects one resolved endpoint URL uniformly at random per
// probe. The rand source is guarded because workers pick concurrently.
type targetPicker struct {
	targets []string
	mu      sync.Mutex
	rnd     *rand.Rand
}

// newTargetPicker resolves each endpoint path against the base URL once,
// up front, so per-probe picking is allocation free.
func newTargetPicker(base string, endpoints []string) (*targetPicker, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", base)
	}

	if len(endpoints) == 0 {
		endpoints = []string{"/"}
	}

	targets := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		rel, err := url.Parse(strings.TrimSpace(ep))
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint path %q: %w", ep, err)
		}
		targets = append(targets, baseURL.ResolveReference(rel).String())
	}

	return &targetPicker{
		targets: targets,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (p *targetPicker) pick() string {
	if len(p.targets) == 1 {
		return p.targets[0]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.targets[p.rnd.Intn(len(p.targets))]
}
