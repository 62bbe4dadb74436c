// internal/engine/static/fetcher.go
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/law-makers/pricecrawl/internal/ratelimit"
	"github.com/law-makers/pricecrawl/internal/retry"
	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultUserAgent looks like a desktop Chrome so storefronts serve the regular page
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	// AcceptLanguage prefers English and falls back to Arabic
	AcceptLanguage = "en,ar;q=0.9"
	// DefaultTimeout bounds one request including redirects
	DefaultTimeout = 20 * time.Second
)

// Options configures the lightweight fetcher
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Retry     retry.Config
}

// Fetcher retrieves raw HTML with a single HTTP GET, without executing scripts
type Fetcher struct {
	client  *http.Client
	limiter ratelimit.RateLimiter
	proxies *proxy.Pool
	opts    Options
	logger  zerolog.Logger
}

type proxyKey struct{}

// New creates a Fetcher. limiter and proxies may be nil.
func New(opts Options, limiter ratelimit.RateLimiter, proxies *proxy.Pool, logger zerolog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.OneShot(time.Second)
	}
	if opts.Retry.Retryable == nil {
		opts.Retry.Retryable = engine.IsRetryable
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFromContext

	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: limiter,
		proxies: proxies,
		opts:    opts,
		logger:  logger,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch downloads the document at url, retrying per the configured policy
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := urlutil.ValidateURL(rawURL); err != nil {
		return "", engine.NewEngineError(engine.ErrCodeInvalidURL, rawURL, errors.Join(engine.ErrInvalidURL, err))
	}

	var html string
	err := retry.WithRetry(ctx, f.opts.Retry, func() error {
		var err error
		html, err = f.fetchOnce(ctx, rawURL)
		return err
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", err
	}

	proxyURL := f.proxies.Next()
	if proxyURL != "" {
		ctx = context.WithValue(ctx, proxyKey{}, proxyURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeInvalidURL, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", AcceptLanguage)
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.proxies.MarkFailed(proxyURL)
		code, sentinel := engine.ErrCodeNetworkError, engine.ErrNetworkError
		if isTimeout(err) {
			code, sentinel = engine.ErrCodeTimeout, engine.ErrTimeout
		}
		return "", engine.NewEngineError(code, "GET "+rawURL, errors.Join(sentinel, err)).WithRetry()
	}
	defer resp.Body.Close()
	f.proxies.MarkHealthy(proxyURL)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", engine.StatusError(rawURL, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type")); err == nil {
		body = decoded
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeNetworkError, "failed to read body", errors.Join(engine.ErrNetworkError, err)).WithRetry()
	}

	f.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Str("proxy", proxyURL).
		Dur("elapsed", time.Since(start)).
		Msg("Fetch completed")

	return string(data), nil
}

func proxyFromContext(req *http.Request) (*url.URL, error) {
	if p, ok := req.Context().Value(proxyKey{}).(string); ok && p != "" {
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", p, err)
		}
		return u, nil
	}
	return http.ProxyFromEnvironment(req)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
