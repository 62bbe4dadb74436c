// Package siteconfig loads optional per-host crawl settings.
package siteconfig

import (
	"errors"
	"os"

	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Site holds the settings for one host
type Site struct {
	Host         string   `mapstructure:"host"`
	IncludePaths []string `mapstructure:"include_paths"`
}

// Registry maps normalized hosts to their settings. The zero value is an
// empty registry.
type Registry struct {
	sites map[string]Site
}

// Load reads the YAML file at path. A missing file yields an empty registry.
// An unreadable or malformed file is logged and also yields an empty registry.
func Load(path string, logger zerolog.Logger) *Registry {
	reg := &Registry{sites: make(map[string]Site)}
	if path == "" {
		return reg
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("Cannot access site config, ignoring it")
		}
		return reg
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Invalid site config, ignoring it")
		return reg
	}

	var sites []Site
	if err := v.UnmarshalKey("sites", &sites); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Invalid site config, ignoring it")
		return reg
	}

	for _, s := range sites {
		host := urlutil.NormalizeHost(s.Host)
		if host == "" {
			continue
		}
		s.Host = host
		reg.sites[host] = s
	}

	logger.Debug().Int("sites", len(reg.sites)).Str("path", path).Msg("Site config loaded")
	return reg
}

// Lookup returns the settings for the host of rawURL
func (r *Registry) Lookup(rawURL string) (Site, bool) {
	if r == nil {
		return Site{}, false
	}
	s, ok := r.sites[urlutil.HostOf(rawURL)]
	return s, ok
}

// IncludePaths returns the include paths configured for the host of rawURL, if any
func (r *Registry) IncludePaths(rawURL string) []string {
	s, _ := r.Lookup(rawURL)
	return s.IncludePaths
}

// Len returns the number of configured hosts
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.sites)
}
