// Package app wires the crawl components together and drives a run.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/law-makers/pricecrawl/internal/cache"
	"github.com/law-makers/pricecrawl/internal/config"
	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/engine/dynamic"
	"github.com/law-makers/pricecrawl/internal/engine/hybrid"
	"github.com/law-makers/pricecrawl/internal/engine/static"
	"github.com/law-makers/pricecrawl/internal/extract"
	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/law-makers/pricecrawl/internal/ratelimit"
	"github.com/law-makers/pricecrawl/internal/report"
	"github.com/law-makers/pricecrawl/internal/retry"
	"github.com/law-makers/pricecrawl/internal/robots"
	"github.com/law-makers/pricecrawl/internal/site"
	"github.com/law-makers/pricecrawl/internal/siteconfig"
	"github.com/law-makers/pricecrawl/internal/ui"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Application holds the dependencies of one run.
//
// It is created once at startup. Use Close() to release the page cache.
type Application struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Cache     cache.Cache
	Fetcher   site.PageFetcher
	Extractor site.ProductExtractor
	Sites     site.PathFilter
	Robots    site.RobotsChecker

	// Stdout receives the final confirmation, Progress the quiet-mode progress bar
	Stdout   io.Writer
	Progress io.Writer

	now       func() time.Time
	startTime time.Time
}

// New creates an Application from cfg.
//
// It performs the following initialization steps:
//   - Creates the page cache, per-host limiter and proxy pool
//   - Creates the lightweight fetcher and, unless static-only, the renderer
//   - Loads the per-host site configuration
//   - Creates the robots.txt checker when requested
func New(cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
	limiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	proxies := proxy.NewPool(cfg.Proxies(), cfg.ProxyCooldown)

	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("proxies", proxies.Len()).
		Int64("cache_max_bytes", cfg.CacheMaxSizeBytes).
		Msg("Fetch infrastructure initialized")

	staticOpts := static.Options{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Headers:   cfg.HeaderMap(),
		Retry:     retry.OneShot(time.Second),
	}
	staticFetcher := static.New(staticOpts, limiter, proxies, logger)

	var renderer engine.Fetcher
	if cfg.Mode() != models.ModeStatic {
		r, err := dynamic.New(cfg.Renderer, dynamic.Options{
			Timeout:   cfg.RenderTimeout,
			UserAgent: cfg.UserAgent,
		}, proxies, logger)
		if err != nil {
			memCache.Close()
			return nil, err
		}
		renderer = r
		logger.Debug().Str("renderer", r.Name()).Msg("Renderer initialized")
	}

	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Cache:     memCache,
		Fetcher: hybrid.NewSelector(staticFetcher, renderer, logger,
			hybrid.WithCache(memCache),
			hybrid.WithThinThreshold(cfg.ThinThreshold),
		),
		Extractor: extract.New(logger),
		Sites:     siteconfig.Load(cfg.SiteConfig, logger),
		Stdout:    os.Stdout,
		Progress:  os.Stderr,
		now:       time.Now,
		startTime: time.Now(),
	}

	if cfg.RespectRobots {
		// robots.txt is fetched once, a missing file is not worth a retry
		robotsOpts := staticOpts
		robotsOpts.Retry = retry.Config{MaxAttempts: 1}
		a.Robots = robots.New(robots.DefaultAgent, static.New(robotsOpts, limiter, proxies, logger).Fetch, logger)
	}

	logger.Debug().Str("mode", string(cfg.Mode())).Msg("Application initialized")
	return a, nil
}

// Run processes sites in order and writes every product to a new report file.
// A failing site is logged and skipped. Only failing to create the report,
// or cancellation of ctx, ends the run with an error.
func (a *Application) Run(ctx context.Context, sites []string) error {
	w, err := report.Create(a.Config.OutDir, a.now())
	if err != nil {
		return err
	}
	defer w.Close()

	a.Logger.Info().Int("sites", len(sites)).Str("output", w.Path()).Msg("Run started")

	var options []site.Option
	if a.Robots != nil {
		options = append(options, site.WithRobots(a.Robots))
	}
	processor := site.New(a.Fetcher, a.Extractor, a.Sites, w, site.Options{
		Mode:      a.Config.Mode(),
		FirstN:    a.Config.FirstN,
		StrictCap: a.Config.StrictCap,
	}, a.Logger, options...)

	var bar *progressbar.ProgressBar
	if a.Config.Quiet && len(sites) > 0 {
		bar = progressbar.NewOptions(len(sites),
			progressbar.OptionSetWriter(a.Progress),
			progressbar.OptionSetDescription("Scraping sites"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	total := 0
	for _, siteURL := range sites {
		if ctx.Err() != nil {
			break
		}
		total += a.processSite(ctx, processor, siteURL)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	a.Logger.Info().
		Int("products", total).
		Dur("elapsed", time.Since(a.startTime)).
		Msg("Run finished")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted, partial output in %s: %w", w.Path(), err)
	}

	fmt.Fprintf(a.Stdout, "%s %s\n", ui.Success("Wrote text output to:"), w.Path())
	return nil
}

// processSite runs one site and never lets its failure escape
func (a *Application) processSite(ctx context.Context, p *site.Processor, siteURL string) (n int) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error().
				Str("url", siteURL).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Unhandled error for site")
		}
	}()

	n, err := p.Process(ctx, siteURL)
	if err != nil {
		a.Logger.Error().Err(err).Str("url", siteURL).Msg("Unhandled error for site")
	}
	return n
}

// Close releases the page cache
func (a *Application) Close() error {
	if a.Cache != nil {
		a.Cache.Close()
	}
	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}
