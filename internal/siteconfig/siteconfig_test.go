package siteconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `sites:
  - host: www.Shop.example
    include_paths: ["/products/", "/collections/"]
  - host: other.example
  - include_paths: ["/ignored/"]
`)

	reg := Load(path, zerolog.Nop())

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"/products/", "/collections/"}, reg.IncludePaths("https://shop.example/home"))
	assert.Equal(t, []string{"/products/", "/collections/"}, reg.IncludePaths("https://WWW.shop.example/"))
	assert.Empty(t, reg.IncludePaths("https://other.example/"))
	assert.Empty(t, reg.IncludePaths("https://unknown.example/"))

	site, ok := reg.Lookup("https://www.shop.example/")
	require.True(t, ok)
	assert.Equal(t, "shop.example", site.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	reg := Load(filepath.Join(t.TempDir(), "absent.yaml"), zerolog.Nop())

	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.IncludePaths("https://shop.example/"))
}

func TestLoad_InvalidFile(t *testing.T) {
	reg := Load(writeFile(t, "sites: [unclosed\n  - : :"), zerolog.Nop())

	assert.Equal(t, 0, reg.Len())
}

func TestLoad_EmptyPath(t *testing.T) {
	assert.Equal(t, 0, Load("", zerolog.Nop()).Len())
}

func TestRegistry_Nil(t *testing.T) {
	var reg *Registry
	assert.Empty(t, reg.IncludePaths("https://shop.example/"))
	assert.Equal(t, 0, reg.Len())
}
