package hybrid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/law-makers/pricecrawl/internal/cache"
	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingFetcher struct {
	html  string
	err   error
	calls int
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

func (f *countingFetcher) Name() string { return "counting" }

func richPage() string {
	return "<html><body>" + strings.Repeat("<p>filler</p>", 3000) + "<span>EGP 10</span></body></html>"
}

func TestSelector_StaticMode(t *testing.T) {
	static := &countingFetcher{html: "<p>tiny</p>"}
	rendered := &countingFetcher{html: richPage()}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeStatic)

	assert.Equal(t, "<p>tiny</p>", html)
	assert.Equal(t, 0, rendered.calls)
}

func TestSelector_AlwaysMode(t *testing.T) {
	static := &countingFetcher{html: richPage()}
	rendered := &countingFetcher{html: "<p>rendered</p>"}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAlways)

	assert.Equal(t, "<p>rendered</p>", html)
	assert.Equal(t, 0, static.calls)
}

func TestSelector_AutoFallsBackOnStaticError(t *testing.T) {
	static := &countingFetcher{err: engine.StatusError("https://shop.example/", 503)}
	rendered := &countingFetcher{html: "<p>rendered</p>"}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto)

	assert.Equal(t, "<p>rendered</p>", html)
	assert.Equal(t, 1, rendered.calls)
}

func TestSelector_AutoBothFail(t *testing.T) {
	static := &countingFetcher{err: errors.New("connection refused")}
	rendered := &countingFetcher{err: errors.New("no browser")}
	s := NewSelector(static, rendered, zerolog.Nop())

	assert.Empty(t, s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto))
}

func TestSelector_AutoThinKeepsLongerRendered(t *testing.T) {
	static := &countingFetcher{html: "<div id=app></div>"}
	rendered := &countingFetcher{html: "<div id=app><span>EGP 10</span></div>"}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto)

	assert.Equal(t, rendered.html, html)
}

func TestSelector_AutoThinKeepsStaticWhenRenderedShorter(t *testing.T) {
	static := &countingFetcher{html: "<div id=app>static shell with text</div>"}
	rendered := &countingFetcher{html: "<div></div>"}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto)

	assert.Equal(t, static.html, html)
	assert.Equal(t, 1, rendered.calls)
}

func TestSelector_AutoRenderFailureKeepsStatic(t *testing.T) {
	static := &countingFetcher{html: "<p>thin</p>"}
	rendered := &countingFetcher{err: errors.New("render crashed")}
	s := NewSelector(static, rendered, zerolog.Nop())

	assert.Equal(t, "<p>thin</p>", s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto))
}

func TestSelector_AutoRichPageSkipsRenderer(t *testing.T) {
	static := &countingFetcher{html: richPage()}
	rendered := &countingFetcher{html: richPage() + "more"}
	s := NewSelector(static, rendered, zerolog.Nop())

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto)

	assert.Equal(t, static.html, html)
	assert.Equal(t, 0, rendered.calls)
}

func TestSelector_ThinThreshold(t *testing.T) {
	static := &countingFetcher{html: "<p>EGP 5 in a short page</p>"}
	rendered := &countingFetcher{html: richPage()}
	s := NewSelector(static, rendered, zerolog.Nop(), WithThinThreshold(10))

	html := s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto)

	assert.Equal(t, static.html, html)
	assert.Equal(t, 0, rendered.calls)
}

func TestSelector_NilRenderer(t *testing.T) {
	static := &countingFetcher{err: errors.New("down")}
	s := NewSelector(static, nil, zerolog.Nop())

	assert.Empty(t, s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAuto))
	assert.Empty(t, s.FetchHTML(context.Background(), "https://shop.example/", models.ModeAlways))
}

func TestSelector_CachesPerModeAndURL(t *testing.T) {
	c := cache.NewMemoryCache(1 << 20)
	defer c.Close()

	static := &countingFetcher{html: "<p>page</p>"}
	s := NewSelector(static, nil, zerolog.Nop(), WithCache(c))

	s.FetchHTML(context.Background(), "https://shop.example/", models.ModeStatic)
	s.FetchHTML(context.Background(), "https://shop.example/", models.ModeStatic)
	assert.Equal(t, 1, static.calls)

	s.FetchHTML(context.Background(), "https://shop.example/other", models.ModeStatic)
	assert.Equal(t, 2, static.calls)
}

func TestAssess(t *testing.T) {
	assert.Equal(t, ReasonThin, Assess("<p>EGP 5</p>", 0))
	assert.Equal(t, ReasonNoPrice, Assess(strings.Repeat("x", 40), 10))
	assert.Equal(t, ReasonNone, Assess(strings.Repeat("x", 40)+"EGP 5", 10))
}

func TestDetectJavaScriptFramework(t *testing.T) {
	assert.Equal(t, "Next.js", DetectJavaScriptFramework(`<script id="__NEXT_DATA__">`))
	assert.Equal(t, "React", DetectJavaScriptFramework(`<div data-reactroot="">`))
	assert.Equal(t, "Unknown", DetectJavaScriptFramework(`<div>plain</div>`))
}
