package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, EngineBrowser, cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"Image", "Stylesheet", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)

	assert.Equal(t, "itm", cfg.Extract.DetailMarker)
	assert.Equal(t, 18*time.Second, cfg.Extract.WaitTimeout)
	assert.Equal(t, 500, cfg.Extract.MaxItemsPerPage)
	assert.NotEmpty(t, cfg.Extract.ItemsChain)

	assert.Equal(t, ModeURLParam, cfg.Pagination.Mode)
	assert.Equal(t, "page", cfg.Pagination.PageParam)
	assert.Equal(t, 10, cfg.Pagination.Ceiling)
	assert.Equal(t, time.Second, cfg.Pagination.DelayMin)
	assert.Equal(t, 2500*time.Millisecond, cfg.Pagination.DelayMax)

	assert.Equal(t, "listings.csv", cfg.Output.CSVPath)
	assert.Equal(t, "text", cfg.Log.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LISTGRAB_ENGINE", EngineStatic)
	t.Setenv("LISTGRAB_START_URL", "https://shop.test/list?cat=7")
	t.Setenv("LISTGRAB_ITEMS_SELECTORS", "div.card | li.result ")
	t.Setenv("LISTGRAB_PAGE_CEILING", "3")
	t.Setenv("LISTGRAB_WAIT_TIMEOUT", "5s")
	t.Setenv("LISTGRAB_HEADLESS", "false")

	cfg := Load()

	assert.Equal(t, EngineStatic, cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "https://shop.test/list?cat=7", cfg.Extract.StartURL)
	assert.Equal(t, []string{"div.card", "li.result"}, cfg.Extract.ItemsChain,
		"pipe-separated chains are split and trimmed")
	assert.Equal(t, 3, cfg.Pagination.Ceiling)
	assert.Equal(t, 5*time.Second, cfg.Extract.WaitTimeout)
}

func TestLoad_MalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("LISTGRAB_PAGE_CEILING", "many")
	t.Setenv("LISTGRAB_WAIT_TIMEOUT", "soon")
	t.Setenv("LISTGRAB_HEADLESS", "yep")

	cfg := Load()

	assert.Equal(t, 10, cfg.Pagination.Ceiling)
	assert.Equal(t, 18*time.Second, cfg.Extract.WaitTimeout)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidate_Failures(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty start url":      func(c *Config) { c.Extract.StartURL = "" },
		"unknown engine":       func(c *Config) { c.Browser.Engine = "phantomjs" },
		"unknown pagination":   func(c *Config) { c.Pagination.Mode = "infinite_scroll" },
		"bad items selector":   func(c *Config) { c.Extract.ItemsChain = []string{"li..card"} },
		"empty title chain":    func(c *Config) { c.Extract.TitleChain = nil },
		"ceiling below one":    func(c *Config) { c.Pagination.Ceiling = 0 },
		"max items below one":  func(c *Config) { c.Extract.MaxItemsPerPage = 0 },
		"inverted delay range": func(c *Config) { c.Pagination.DelayMin = 2 * time.Second; c.Pagination.DelayMax = time.Second },
		"static cannot click next": func(c *Config) {
			c.Browser.Engine = EngineStatic
			c.Pagination.Mode = ModeNextButton
		},
		"bad next selector in next mode": func(c *Config) {
			c.Pagination.Mode = ModeNextButton
			c.Pagination.NextChain = []string{"a[rel="}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Load()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_NextChainIgnoredInURLMode(t *testing.T) {
	cfg := Load()
	cfg.Pagination.Mode = ModeURLParam
	cfg.Pagination.NextChain = []string{"a[rel="}

	require.NoError(t, cfg.Validate(), "the next chain only matters in next_button mode")
}
