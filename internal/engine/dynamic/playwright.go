// internal/engine/dynamic/playwright.go
package dynamic

import (
	"context"
	"errors"
	"time"

	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// PlaywrightRenderer renders pages in a fresh headless Chromium per call via Playwright.
// The Playwright driver and browsers must be installed beforehand.
type PlaywrightRenderer struct {
	opts    Options
	proxies *proxy.Pool
	logger  zerolog.Logger
}

// NewPlaywrightRenderer creates a Playwright-backed renderer
func NewPlaywrightRenderer(opts Options, proxies *proxy.Pool, logger zerolog.Logger) *PlaywrightRenderer {
	return &PlaywrightRenderer{opts: opts.withDefaults(), proxies: proxies, logger: logger}
}

// Name returns the name of this renderer
func (r *PlaywrightRenderer) Name() string {
	return "PlaywrightRenderer"
}

// Fetch navigates to url, waits for the settle delay and returns page content
func (r *PlaywrightRenderer) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	pw, err := playwright.Run()
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeRender, "start playwright", errors.Join(engine.ErrBrowserNotFound, err))
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			r.logger.Debug().Err(err).Msg("Failed to stop playwright")
		}
	}()

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	}
	if r.opts.ChromePath != "" {
		launch.ExecutablePath = playwright.String(r.opts.ChromePath)
	}
	proxyURL := r.proxies.Next()
	if proxyURL != "" {
		launch.Proxy = &playwright.Proxy{Server: proxyURL}
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeRender, "launch chromium", errors.Join(engine.ErrBrowserNotFound, err))
	}
	defer browser.Close()

	// Closing the browser unblocks any pending call when the caller gives up
	stop := context.AfterFunc(ctx, func() { browser.Close() })
	defer stop()

	pageOpts := playwright.BrowserNewPageOptions{
		JavaScriptEnabled: playwright.Bool(true),
	}
	if r.opts.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(r.opts.UserAgent)
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		return "", renderError(url, err)
	}

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(r.opts.Timeout.Milliseconds())),
	})
	if err != nil {
		r.proxies.MarkFailed(proxyURL)
		if errors.Is(err, playwright.ErrTimeout) {
			return "", engine.NewEngineError(engine.ErrCodeTimeout, "render "+url, errors.Join(engine.ErrTimeout, err))
		}
		return "", renderError(url, err)
	}
	r.proxies.MarkHealthy(proxyURL)

	page.WaitForTimeout(float64(r.opts.Settle.Milliseconds()))

	html, err := page.Content()
	if err != nil {
		return "", renderError(url, err)
	}

	status := 0
	if resp != nil {
		status = resp.Status()
	}
	r.logger.Debug().
		Str("url", url).
		Int("status", status).
		Int("bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Msg("Render completed")

	return html, nil
}
