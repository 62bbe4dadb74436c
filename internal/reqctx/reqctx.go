// Package reqctx tags the processing of one site with a short run ID.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type key int

const siteKey key = 0

// SiteContext identifies one pass over a site
type SiteContext struct {
	RunID     string
	Site      string
	StartTime time.Time
}

// Elapsed returns the time since the site pass started
func (sc *SiteContext) Elapsed() time.Duration {
	return time.Since(sc.StartTime)
}

// WithSite returns a child context carrying a fresh SiteContext for site
func WithSite(ctx context.Context, site string) context.Context {
	return context.WithValue(ctx, siteKey, &SiteContext{
		RunID:     generateID(),
		Site:      site,
		StartTime: time.Now(),
	})
}

// FromContext returns the SiteContext in ctx, or a placeholder when there is none
func FromContext(ctx context.Context) *SiteContext {
	if sc, ok := ctx.Value(siteKey).(*SiteContext); ok {
		return sc
	}
	return &SiteContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

func generateID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// SiteError wraps an error with the run ID and site it happened on
type SiteError struct {
	RunID string
	Site  string
	Err   error
}

// Error implements the error interface
func (e *SiteError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.RunID, e.Site, e.Err)
}

// Unwrap returns the underlying error
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Wrap attaches the SiteContext of ctx to err. A nil err stays nil.
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	sc := FromContext(ctx)
	return &SiteError{
		RunID: sc.RunID,
		Site:  sc.Site,
		Err:   err,
	}
}
