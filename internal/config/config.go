package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/pricecrawl/internal/proxy"
	"github.com/law-makers/pricecrawl/internal/utils/headers"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings of one run
type Config struct {
	SitesFile     string        `mapstructure:"sites"`
	OutDir        string        `mapstructure:"out-dir"`
	FirstN        int           `mapstructure:"first-n"`
	Dynamic       string        `mapstructure:"dynamic"`
	StaticOnly    bool          `mapstructure:"static-only"`
	SiteConfig    string        `mapstructure:"config"`
	LogDir        string        `mapstructure:"log-dir"`
	Renderer      string        `mapstructure:"renderer"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RenderTimeout time.Duration `mapstructure:"render-timeout"`
	UserAgent     string        `mapstructure:"user-agent"`
	Proxy         string        `mapstructure:"proxy"`
	Headers       []string      `mapstructure:"header"`
	RateLimitRPS  float64       `mapstructure:"rate-limit"`
	RespectRobots bool          `mapstructure:"respect-robots"`
	StrictCap     bool          `mapstructure:"strict-cap"`

	// Logging
	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
	JSONLog bool `mapstructure:"json"`

	// Not exposed as flags
	RateLimitBurst    int           `mapstructure:"rate-limit-burst"`
	ProxyCooldown     time.Duration `mapstructure:"proxy-cooldown"`
	CacheMaxSizeBytes int64         `mapstructure:"cache-max-size"`
	// ThinThreshold is the document size in bytes below which auto mode also renders
	ThinThreshold int `mapstructure:"thin-threshold"`
}

// Load builds a Config from defaults, PRICECRAWL_* environment variables and
// the flags of cmd, in increasing priority. cmd may be nil.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
		if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// StringArray values may contain commas, so read them from the flag set directly
	if cmd != nil {
		if hs, ok := changedStringArray(cmd.Flags(), "header"); ok {
			cfg.Headers = hs
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func changedStringArray(fs *pflag.FlagSet, name string) ([]string, bool) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return nil, false
	}
	values, err := fs.GetStringArray(name)
	return values, err == nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sites", DefaultSitesFile)
	v.SetDefault("out-dir", DefaultOutDir)
	v.SetDefault("first-n", DefaultFirstN)
	v.SetDefault("dynamic", DefaultDynamic)
	v.SetDefault("static-only", false)
	v.SetDefault("config", DefaultSiteConfig)
	v.SetDefault("log-dir", DefaultLogDir)
	v.SetDefault("renderer", DefaultRenderer)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("render-timeout", DefaultRenderTimeout)
	v.SetDefault("user-agent", DefaultUserAgent)
	v.SetDefault("proxy", "")
	v.SetDefault("header", []string{})
	v.SetDefault("rate-limit", DefaultRateLimitRPS)
	v.SetDefault("respect-robots", false)
	v.SetDefault("strict-cap", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("json", false)
	v.SetDefault("rate-limit-burst", DefaultRateLimitBurst)
	v.SetDefault("proxy-cooldown", DefaultProxyCooldown)
	v.SetDefault("cache-max-size", DefaultCacheMaxSizeBytes)
	v.SetDefault("thin-threshold", DefaultThinThreshold)
}

// Mode returns the effective fetch mode
func (c *Config) Mode() models.FetchMode {
	return models.ResolveMode(c.StaticOnly, c.Dynamic)
}

// Proxies returns the parsed proxy list
func (c *Config) Proxies() []string {
	proxies, _ := proxy.ParseList(c.Proxy)
	return proxies
}

// HeaderMap returns the extra request headers
func (c *Config) HeaderMap() map[string]string {
	return headers.ParseHeaders(c.Headers)
}

// LogLevel returns the zerolog level name for the verbosity flags
func (c *Config) LogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return "info"
}
