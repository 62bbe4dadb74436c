package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/pricecrawl/internal/engine/dynamic"
	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/law-makers/pricecrawl/internal/utils/headers"
	"github.com/law-makers/pricecrawl/pkg/models"
)

func validate(c *Config) error {
	if c.FirstN <= 0 {
		return fmt.Errorf("first-n must be > 0")
	}
	if c.Dynamic != string(models.ModeAuto) && c.Dynamic != string(models.ModeAlways) {
		return fmt.Errorf("dynamic must be 'auto' or 'always', got: %s", c.Dynamic)
	}
	if c.Renderer != dynamic.RendererChromedp && c.Renderer != dynamic.RendererPlaywright {
		return fmt.Errorf("renderer must be '%s' or '%s', got: %s", dynamic.RendererChromedp, dynamic.RendererPlaywright, c.Renderer)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.RenderTimeout <= 0 {
		return fmt.Errorf("render timeout must be > 0")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.ThinThreshold <= 0 {
		return fmt.Errorf("thin threshold must be > 0")
	}
	if strings.TrimSpace(c.SitesFile) == "" {
		return fmt.Errorf("sites file is required")
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	if _, err := proxy.ParseList(c.Proxy); err != nil {
		return err
	}
	if _, err := headers.Parse(c.Headers); err != nil {
		return err
	}
	return nil
}
