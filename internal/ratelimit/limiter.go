// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"sync"

	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"golang.org/x/time/rate"
)

// RateLimiter paces requests per host so a single site is never hammered.
type RateLimiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled first, the context error is returned.
	Wait(ctx context.Context, urlStr string) error
}

// DomainLimiter keeps one token bucket per normalized host.
// "www.shop.com" and "shop.com" share a bucket.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing requestsPerSecond per host.
// A non-positive rate disables limiting.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  limit,
		burst:    burst,
	}
}

// Wait blocks until the request for the given URL can proceed according to rate limits
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	host := urlutil.HostOf(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (will fail elsewhere)
		return nil
	}
	return dl.limiterFor(host).Wait(ctx)
}

func (dl *DomainLimiter) limiterFor(host string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if limiter, ok := dl.limiters[host]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[host] = limiter
	return limiter
}

// Unlimited never blocks
type Unlimited struct{}

// Wait returns immediately unless ctx is already done
func (Unlimited) Wait(ctx context.Context, _ string) error {
	return ctx.Err()
}
