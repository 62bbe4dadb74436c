// Package site turns one storefront URL into report lines.
package site

import (
	"context"
	"time"

	"github.com/law-makers/pricecrawl/internal/discover"
	"github.com/law-makers/pricecrawl/internal/reqctx"
	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// PageFetcher returns the HTML of a page, or "" when it could not be retrieved
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string, mode models.FetchMode) string
}

// ProductExtractor finds products in a page
type ProductExtractor interface {
	ExtractHTML(html, baseURL string) []models.Product
}

// PathFilter supplies the include paths configured for a URL's host
type PathFilter interface {
	IncludePaths(url string) []string
}

// RobotsChecker reports whether a URL may be crawled
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) bool
}

// ProductWriter records one product found on pageURL
type ProductWriter interface {
	WriteProduct(host string, p models.Product, pageURL string) error
}

// Options controls how much of a site is processed
type Options struct {
	Mode   models.FetchMode
	FirstN int
	// StrictCap stops writing mid-page once FirstN products were written.
	// Without it the cap is only checked between pages.
	StrictCap bool
}

// Processor fetches a landing page, discovers candidate pages and writes
// the products found on them
type Processor struct {
	fetcher   PageFetcher
	extractor ProductExtractor
	paths     PathFilter
	robots    RobotsChecker
	out       ProductWriter
	opts      Options
	logger    zerolog.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithRobots skips candidate pages that checker disallows
func WithRobots(checker RobotsChecker) Option {
	return func(p *Processor) { p.robots = checker }
}

// New creates a Processor. paths may be nil.
func New(fetcher PageFetcher, extractor ProductExtractor, paths PathFilter, out ProductWriter, opts Options, logger zerolog.Logger, options ...Option) *Processor {
	if opts.Mode == "" {
		opts.Mode = models.ModeAuto
	}
	p := &Processor{
		fetcher:   fetcher,
		extractor: extractor,
		paths:     paths,
		out:       out,
		opts:      opts,
		logger:    logger,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Process handles one site and returns the number of products written.
// Fetch and extraction failures are logged, not returned. Errors come only
// from writing the report or from ctx being cancelled.
func (p *Processor) Process(ctx context.Context, siteURL string) (int, error) {
	host := urlutil.HostOf(siteURL)
	ctx = reqctx.WithSite(ctx, host)
	sc := reqctx.FromContext(ctx)

	logger := p.logger.With().Str("site", host).Str("run_id", sc.RunID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Str("mode", string(p.opts.Mode)).Str("url", siteURL).Msg("Fetching landing page")

	html := p.fetcher.FetchHTML(ctx, siteURL, p.opts.Mode)
	if html == "" {
		logger.Warn().Str("url", siteURL).Msg("Empty HTML")
		return 0, nil
	}

	var includePaths []string
	if p.paths != nil {
		includePaths = p.paths.IncludePaths(siteURL)
	}
	candidates := discover.ProductLinks(siteURL, html, includePaths)
	if len(candidates) == 0 {
		candidates = []string{siteURL}
	}
	if p.opts.FirstN > 0 && len(candidates) > p.opts.FirstN {
		candidates = candidates[:p.opts.FirstN]
	}
	logger.Debug().Int("candidates", len(candidates)).Msg("Candidate pages selected")

	collected := 0
	for _, link := range candidates {
		if err := ctx.Err(); err != nil {
			return collected, reqctx.Wrap(ctx, err)
		}

		if p.robots != nil && !p.robots.Allowed(ctx, link) {
			logger.Info().Str("url", link).Msg("Disallowed by robots.txt, skipping")
			continue
		}

		page := p.fetcher.FetchHTML(ctx, link, p.opts.Mode)
		if page == "" {
			continue
		}

		for _, product := range p.extractor.ExtractHTML(page, link) {
			if p.opts.StrictCap && p.capReached(collected) {
				break
			}
			if err := p.out.WriteProduct(host, product, link); err != nil {
				return collected, reqctx.Wrap(ctx, err)
			}
			collected++
		}

		if p.capReached(collected) {
			break
		}
	}

	logger.Info().
		Int("products", collected).
		Str("elapsed", sc.Elapsed().Round(100*time.Millisecond).String()).
		Msg("Site done")

	return collected, nil
}

func (p *Processor) capReached(collected int) bool {
	return p.opts.FirstN > 0 && collected >= p.opts.FirstN
}
