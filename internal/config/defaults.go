package config

import (
	"time"

	"github.com/law-makers/pricecrawl/internal/engine/dynamic"
	"github.com/law-makers/pricecrawl/internal/engine/hybrid"
	"github.com/law-makers/pricecrawl/internal/engine/static"
	"github.com/law-makers/pricecrawl/pkg/models"
)

// Default constants for application configuration
const (
	DefaultSitesFile         = "sites.txt"
	DefaultOutDir            = "output"
	DefaultFirstN            = 50
	DefaultDynamic           = string(models.ModeAuto)
	DefaultSiteConfig        = "config.yaml"
	DefaultLogDir            = "logs"
	DefaultLogFile           = "scrape.log"
	DefaultRenderer          = dynamic.RendererChromedp
	DefaultTimeout           = static.DefaultTimeout
	DefaultRenderTimeout     = dynamic.DefaultTimeout
	DefaultUserAgent         = static.DefaultUserAgent
	DefaultRateLimitRPS      = 2.0
	DefaultRateLimitBurst    = 2
	DefaultProxyCooldown     = 5 * time.Minute
	DefaultCacheMaxSizeBytes = 64 * 1024 * 1024 // 64MB
	DefaultThinThreshold     = hybrid.DefaultThinThreshold
	EnvPrefix                = "PRICECRAWL"
)
