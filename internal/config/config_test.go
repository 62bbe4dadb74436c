package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "pricecrawl"}
	RegisterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newCommand(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultSitesFile, cfg.SitesFile)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, 50, cfg.FirstN)
	assert.Equal(t, models.ModeAuto, cfg.Mode())
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.RenderTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, "info", cfg.LogLevel())
	assert.False(t, cfg.StrictCap)
	assert.Empty(t, cfg.Proxies())
}

func TestLoad_NilCommand(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFirstN, cfg.FirstN)
}

func TestLoad_Flags(t *testing.T) {
	cmd := newCommand(t,
		"--first-n", "5",
		"--static-only",
		"--timeout", "3s",
		"--proxy", "http://a:1,http://b:2",
		"-H", "Cookie: a=1, b=2",
		"-H", "X-Test: yes",
		"-v",
	)

	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.FirstN)
	assert.Equal(t, models.ModeStatic, cfg.Mode())
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, cfg.Proxies())
	assert.Equal(t, map[string]string{"Cookie": "a=1, b=2", "X-Test": "yes"}, cfg.HeaderMap())
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PRICECRAWL_FIRST_N", "7")
	t.Setenv("PRICECRAWL_DYNAMIC", "always")

	cfg, err := Load(newCommand(t))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.FirstN)
	assert.Equal(t, models.ModeAlways, cfg.Mode())
}

func TestLoad_ThinThresholdFromEnv(t *testing.T) {
	cfg, err := Load(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultThinThreshold, cfg.ThinThreshold)

	t.Setenv("PRICECRAWL_THIN_THRESHOLD", "5000")
	cfg, err = Load(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.ThinThreshold)

	t.Setenv("PRICECRAWL_THIN_THRESHOLD", "0")
	_, err = Load(newCommand(t))
	assert.Error(t, err)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("PRICECRAWL_FIRST_N", "7")

	cfg, err := Load(newCommand(t, "--first-n", "9"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.FirstN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := [][]string{
		{"--first-n", "0"},
		{"--dynamic", "sometimes"},
		{"--renderer", "rod"},
		{"--timeout", "0s"},
		{"--proxy", "nohost"},
		{"-H", "no-colon"},
		{"-v", "-q"},
	}
	for _, args := range tests {
		_, err := Load(newCommand(t, args...))
		assert.Error(t, err, "args %v", args)
	}
}

func TestLoadSites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.txt")
	content := "# storefronts\nhttps://a.example/\n\n   \n  https://b.example/shop  \n#https://skipped.example/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sites, err := LoadSites(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/", "https://b.example/shop"}, sites)
}

func TestLoadSites_Missing(t *testing.T) {
	_, err := LoadSites(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
