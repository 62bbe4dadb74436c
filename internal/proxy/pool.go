package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool rotates through proxies and skips the ones that failed recently
type Pool struct {
	proxies  []string
	index    int
	cooldown time.Duration
	failed   map[string]time.Time
	now      func() time.Time
	mu       sync.Mutex
}

// ParseList splits a comma-separated proxy list and validates every entry
func ParseList(list string) ([]string, error) {
	var proxies []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		u, err := url.Parse(p)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", p)
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// NewPool creates a Pool. An empty pool always yields "".
func NewPool(proxies []string, cooldown time.Duration) *Pool {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Pool{
		proxies:  proxies,
		cooldown: cooldown,
		failed:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down the
// rotation continues anyway rather than going direct.
func (p *Pool) Next() string {
	if p.Len() == 0 {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for range p.proxies {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[candidate]
		if !ok {
			return candidate
		}
		if p.now().Sub(failedAt) >= p.cooldown {
			delete(p.failed, candidate)
			return candidate
		}
	}

	candidate := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return candidate
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *Pool) MarkFailed(proxy string) {
	if proxy == "" || p.Len() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears the failure status of a proxy
func (p *Pool) MarkHealthy(proxy string) {
	if proxy == "" || p.Len() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}
