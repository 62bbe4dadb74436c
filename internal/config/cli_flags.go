package config

import "github.com/spf13/cobra"

// RegisterFlags registers the run flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	f := cmd.Flags()
	f.String("sites", DefaultSitesFile, "Path to file with one URL per line")
	f.String("out-dir", DefaultOutDir, "Directory to write the .txt report to")
	f.Int("first-n", DefaultFirstN, "Max products per site")
	f.String("dynamic", DefaultDynamic, "Rendering behavior: auto or always")
	f.Bool("static-only", false, "Never render pages in a browser")
	f.String("config", DefaultSiteConfig, "Per-host site configuration file (optional)")
	f.String("log-dir", DefaultLogDir, "Directory for scrape.log")
	f.String("renderer", DefaultRenderer, "Headless browser driver: chromedp or playwright")
	f.Duration("timeout", DefaultTimeout, "Timeout for lightweight HTTP fetches")
	f.Duration("render-timeout", DefaultRenderTimeout, "Navigation timeout for rendered fetches")
	f.String("user-agent", DefaultUserAgent, "User agent sent with every request")
	f.String("proxy", "", "Comma-separated HTTP/SOCKS5 proxies to rotate through")
	f.StringArrayP("header", "H", nil, "Extra request header 'Key: Value' (repeatable)")
	f.Float64("rate-limit", DefaultRateLimitRPS, "Max requests per second per host (0 disables)")
	f.Bool("respect-robots", false, "Skip pages disallowed by robots.txt")
	f.Bool("strict-cap", false, "Never write more than first-n products per site")

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Show only errors and a progress bar")
	cmd.PersistentFlags().Bool("json", false, "Write log lines as JSON")
}
