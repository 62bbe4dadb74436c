// Package robots answers whether a URL may be crawled according to its host's robots.txt.
package robots

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
)

// DefaultAgent is the user-agent token matched against robots.txt groups
const DefaultAgent = "pricecrawl"

// FetchFunc retrieves the body of a robots.txt URL
type FetchFunc func(ctx context.Context, url string) (string, error)

// Checker caches one robots.txt group per host for the whole run.
// Any failure to fetch or parse robots.txt allows everything on that host.
type Checker struct {
	hostRules map[string]*robotstxt.Group
	mu        sync.RWMutex
	agent     string
	fetch     FetchFunc
	logger    zerolog.Logger
}

// New creates a Checker that downloads robots.txt with fetch
func New(agent string, fetch FetchFunc, logger zerolog.Logger) *Checker {
	if agent == "" {
		agent = DefaultAgent
	}
	return &Checker{
		hostRules: make(map[string]*robotstxt.Group),
		agent:     agent,
		fetch:     fetch,
		logger:    logger,
	}
}

// Allowed reports whether rawURL may be fetched. Unparseable URLs are allowed
// and left for the fetcher to reject.
func (c *Checker) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		return true
	}

	group := c.groupFor(ctx, target)
	if group == nil {
		return true
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return group.Test(path)
}

func (c *Checker) groupFor(ctx context.Context, target *url.URL) *robotstxt.Group {
	host := target.Host

	c.mu.RLock()
	group, ok := c.hostRules[host]
	c.mu.RUnlock()
	if ok {
		return group
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if group, ok = c.hostRules[host]; ok {
		return group
	}

	robotsURL := target.Scheme + "://" + host + "/robots.txt"
	body, err := c.fetch(ctx, robotsURL)
	if err != nil || body == "" {
		c.logger.Debug().Err(err).Str("url", robotsURL).Msg("No usable robots.txt, allowing all")
		c.hostRules[host] = nil
		return nil
	}

	rules, err := robotstxt.FromString(body)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", robotsURL).Msg("Failed to parse robots.txt, allowing all")
		c.hostRules[host] = nil
		return nil
	}

	group = rules.FindGroup(c.agent)
	c.hostRules[host] = group
	return group
}
