// internal/engine/dynamic/renderer.go
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds page navigation
	DefaultTimeout = 30 * time.Second
	// DefaultSettle is the fixed wait after navigation for client-side rendering
	DefaultSettle = 1200 * time.Millisecond

	// launchGrace covers browser startup and teardown on top of navigation
	launchGrace = 15 * time.Second
)

// Renderer names accepted by New
const (
	RendererChromedp   = "chromedp"
	RendererPlaywright = "playwright"
)

// Options configures a headless-browser renderer
type Options struct {
	Timeout    time.Duration
	Settle     time.Duration
	UserAgent  string
	ChromePath string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Settle < 0 {
		o.Settle = 0
	} else if o.Settle == 0 {
		o.Settle = DefaultSettle
	}
	return o
}

// New returns the renderer registered under name
func New(name string, opts Options, proxies *proxy.Pool, logger zerolog.Logger) (engine.Fetcher, error) {
	switch name {
	case "", RendererChromedp:
		return NewChromeRenderer(opts, proxies, logger), nil
	case RendererPlaywright:
		return NewPlaywrightRenderer(opts, proxies, logger), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want %s or %s)", name, RendererChromedp, RendererPlaywright)
	}
}

// ChromeRenderer renders pages in a fresh headless Chrome per call via chromedp
type ChromeRenderer struct {
	opts    Options
	proxies *proxy.Pool
	logger  zerolog.Logger
}

// NewChromeRenderer creates a chromedp-backed renderer
func NewChromeRenderer(opts Options, proxies *proxy.Pool, logger zerolog.Logger) *ChromeRenderer {
	opts = opts.withDefaults()
	if opts.ChromePath == "" {
		opts.ChromePath = FindChrome(logger)
	}
	return &ChromeRenderer{opts: opts, proxies: proxies, logger: logger}
}

// Name returns the name of this renderer
func (r *ChromeRenderer) Name() string {
	return "ChromeRenderer"
}

func (r *ChromeRenderer) allocatorOptions(proxyURL string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disk-cache-size", "0"),
	}
	if r.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.opts.UserAgent))
	}
	if r.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ChromePath))
	}
	if proxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(proxyURL))
	}
	return opts
}

// Fetch navigates to url, waits for the settle delay and returns the rendered
// outer HTML. The browser is torn down before returning.
func (r *ChromeRenderer) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout+r.opts.Settle+launchGrace)
	defer cancel()

	proxyURL := r.proxies.Next()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions(proxyURL)...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var status atomic.Int64
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, resp.Response.Status)
		}
	})

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			navCtx, navCancel := context.WithTimeout(ctx, r.opts.Timeout)
			defer navCancel()
			return chromedp.Navigate(url).Do(navCtx)
		}),
		chromedp.Sleep(r.opts.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		r.proxies.MarkFailed(proxyURL)
		return "", renderError(url, err)
	}
	r.proxies.MarkHealthy(proxyURL)

	r.logger.Debug().
		Str("url", url).
		Int64("status", status.Load()).
		Int("bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Msg("Render completed")

	return html, nil
}

func renderError(url string, err error) *engine.EngineError {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return engine.NewEngineError(engine.ErrCodeRender, "render "+url, errors.Join(engine.ErrBrowserNotFound, err))
	case errors.Is(err, context.DeadlineExceeded):
		return engine.NewEngineError(engine.ErrCodeTimeout, "render "+url, errors.Join(engine.ErrTimeout, err))
	default:
		return engine.NewEngineError(engine.ErrCodeRender, "render "+url, errors.Join(engine.ErrRenderFailed, err))
	}
}
