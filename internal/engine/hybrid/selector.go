// internal/engine/hybrid/selector.go
package hybrid

import (
	"context"
	"errors"
	"time"

	"github.com/law-makers/pricecrawl/internal/cache"
	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// DefaultCacheTTL keeps fetched documents for the length of a typical run
const DefaultCacheTTL = 30 * time.Minute

var errNoRenderer = errors.New("no renderer configured")

// Selector chooses between the lightweight fetch and the rendered fetch per page
type Selector struct {
	static    engine.Fetcher
	renderer  engine.Fetcher
	cache     cache.Cache
	threshold int
	logger    zerolog.Logger
}

// Option configures a Selector
type Option func(*Selector)

// WithCache stores every non-empty result under its (mode, url) key
func WithCache(c cache.Cache) Option {
	return func(s *Selector) { s.cache = c }
}

// WithThinThreshold overrides the thin-document size in bytes
func WithThinThreshold(bytes int) Option {
	return func(s *Selector) { s.threshold = bytes }
}

// NewSelector creates a Selector. renderer may be nil when only static mode is used.
func NewSelector(static, renderer engine.Fetcher, logger zerolog.Logger, opts ...Option) *Selector {
	s := &Selector{
		static:    static,
		renderer:  renderer,
		threshold: DefaultThinThreshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchHTML returns the document at url according to mode. It never fails:
// every error is logged and yields "".
func (s *Selector) FetchHTML(ctx context.Context, url string, mode models.FetchMode) string {
	key := cache.Key(mode, url)
	if s.cache != nil {
		if html, ok := s.cache.Get(key); ok {
			s.logger.Debug().Str("url", url).Str("mode", string(mode)).Msg("Page cache hit")
			return html
		}
	}

	var html string
	switch mode {
	case models.ModeStatic:
		html = s.fetchStatic(ctx, url)
	case models.ModeAlways:
		html = s.fetchRendered(ctx, url)
	default:
		html = s.fetchAuto(ctx, url)
	}

	if html != "" && s.cache != nil {
		s.cache.Set(key, html, DefaultCacheTTL)
	}
	return html
}

func (s *Selector) fetchStatic(ctx context.Context, url string) string {
	html, err := s.static.Fetch(ctx, url)
	if err != nil {
		s.logger.Error().Err(err).Str("url", url).Int("status", engine.StatusCode(err)).Msg("Static fetch failed")
		return ""
	}
	return html
}

func (s *Selector) fetchRendered(ctx context.Context, url string) string {
	html, err := s.render(ctx, url)
	if err != nil {
		s.logger.Error().Err(err).Str("url", url).Msg("Rendered fetch failed")
		return ""
	}
	return html
}

func (s *Selector) fetchAuto(ctx context.Context, url string) string {
	html, err := s.static.Fetch(ctx, url)
	if err != nil {
		s.logger.Info().
			Err(err).
			Str("url", url).
			Int("status", engine.StatusCode(err)).
			Msg("Static fetch failed, falling back to rendering")
		return s.fetchRendered(ctx, url)
	}

	reason := Assess(html, s.threshold)
	if reason == ReasonNone {
		return html
	}

	s.logger.Debug().
		Str("url", url).
		Str("reason", string(reason)).
		Int("bytes", len(html)).
		Str("framework", DetectJavaScriptFramework(html)).
		Msg("Static document looks incomplete, trying rendered fetch")

	rendered, err := s.render(ctx, url)
	if err != nil {
		s.logger.Info().Err(err).Str("url", url).Msg("Rendered fetch failed, keeping static document")
		return html
	}
	if len(rendered) > len(html) {
		return rendered
	}
	return html
}

func (s *Selector) render(ctx context.Context, url string) (string, error) {
	if s.renderer == nil {
		return "", engine.NewEngineError(engine.ErrCodeRender, url, errNoRenderer)
	}
	return s.renderer.Fetch(ctx, url)
}
