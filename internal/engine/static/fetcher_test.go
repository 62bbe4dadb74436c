package static

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/retry"
	"github.com/rs/zerolog"
)

func newTestFetcher(headers map[string]string) *Fetcher {
	return New(Options{
		Timeout: 5 * time.Second,
		Headers: headers,
		Retry:   retry.OneShot(time.Millisecond),
	}, nil, nil, zerolog.Nop())
}

func TestFetcher_Fetch_BasicHTML(t *testing.T) {
	var gotUA, gotLang, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotCustom = r.Header.Get("X-Test")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Hello</h1></body></html>`))
	}))
	defer server.Close()

	f := newTestFetcher(map[string]string{"X-Test": "yes"})
	html, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.Contains(html, "<h1>Hello</h1>") {
		t.Errorf("unexpected body: %s", html)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("Expected browser user agent, got %q", gotUA)
	}
	if gotLang != AcceptLanguage {
		t.Errorf("Expected Accept-Language %q, got %q", AcceptLanguage, gotLang)
	}
	if gotCustom != "yes" {
		t.Errorf("Expected custom header to be sent, got %q", gotCustom)
	}
}

func TestFetcher_Fetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moved here"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	html, err := newTestFetcher(nil).Fetch(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "moved here" {
		t.Errorf("Expected redirect target body, got %q", html)
	}
}

func TestFetcher_Fetch_RetriesOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	html, err := newTestFetcher(nil).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "ok" {
		t.Errorf("Expected body from second attempt, got %q", html)
	}
	if calls != 2 {
		t.Errorf("Expected 2 requests, got %d", calls)
	}
}

func TestFetcher_Fetch_BadStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestFetcher(nil).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	if !errors.Is(err, engine.ErrBadStatus) {
		t.Errorf("Expected ErrBadStatus, got %v", err)
	}

	var ee *engine.EngineError
	if !errors.As(err, &ee) || ee.Code != engine.ErrCodeHTTPStatus || ee.GetStatusCode() != 404 {
		t.Errorf("Expected HTTP_STATUS error with status 404, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected exactly one retry, got %d requests", calls)
	}
}

func TestFetcher_Fetch_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("caf\xe9"))
	}))
	defer server.Close()

	html, err := newTestFetcher(nil).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "café" {
		t.Errorf("Expected decoded body, got %q", html)
	}
}

func TestFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := newTestFetcher(nil).Fetch(context.Background(), "ftp://example.com/file")
	if !errors.Is(err, engine.ErrInvalidURL) {
		t.Errorf("Expected ErrInvalidURL, got %v", err)
	}
}

func TestFetcher_Fetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestFetcher(nil).Fetch(ctx, server.URL); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestFetcher_Name(t *testing.T) {
	if name := newTestFetcher(nil).Name(); name != "StaticFetcher" {
		t.Errorf("Expected StaticFetcher, got %s", name)
	}
}

// countingLimiter records Wait calls and fails them with err when set
type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Wait(context.Context, string) error {
	l.calls.Add(1)
	return l.err
}

func TestFetcher_Fetch_NetworkErrorRetriedOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	limiter := &countingLimiter{}
	f := New(Options{Timeout: time.Second, Retry: retry.OneShot(time.Millisecond)}, limiter, nil, zerolog.Nop())

	_, err := f.Fetch(context.Background(), url)
	if !errors.Is(err, engine.ErrNetworkError) {
		t.Errorf("Expected ErrNetworkError, got %v", err)
	}
	if got := limiter.calls.Load(); got != 2 {
		t.Errorf("Expected 2 attempts, got %d", got)
	}
}

func TestFetcher_Fetch_NonRetryableNotRetried(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("limiter closed")}
	f := New(Options{Timeout: time.Second, Retry: retry.OneShot(time.Millisecond)}, limiter, nil, zerolog.Nop())

	if _, err := f.Fetch(context.Background(), "https://shop.example/"); err == nil {
		t.Fatal("Expected error")
	}
	if got := limiter.calls.Load(); got != 1 {
		t.Errorf("Expected a single attempt, got %d", got)
	}
}
