package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestDomainLimiter_SharesBucketAcrossWWW(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	ctx := context.Background()

	if err := dl.Wait(ctx, "https://www.shop.example/a"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	// The bucket is empty now, so a short deadline must expire for the same host
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := dl.Wait(short, "https://shop.example/b"); err == nil {
		t.Error("expected the second request to the same host to be throttled")
	}

	// A different host has its own bucket
	if err := dl.Wait(ctx, "https://other.example/"); err != nil {
		t.Errorf("other host should not be throttled: %v", err)
	}
}

func TestDomainLimiter_ZeroRateDisables(t *testing.T) {
	dl := NewDomainLimiter(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 20; i++ {
		if err := dl.Wait(ctx, "https://shop.example/"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
}

func TestDomainLimiter_InvalidURLPasses(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	if err := dl.Wait(context.Background(), "::not-a-url"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
