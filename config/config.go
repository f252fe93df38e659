package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
)

// Pagination modes.
const (
	ModeURLParam   = "url"
	ModeNextButton = "next_button"
)

// Rendering engines.
const (
	EngineBrowser = "browser"
	EngineStatic  = "static"
)

// Config holds all application configuration.
type Config struct {
	Browser    BrowserConfig
	Extract    ExtractConfig
	Pagination PaginationConfig
	Output     OutputConfig
	Log        LogConfig
}

// BrowserConfig controls the rendering engine.
type BrowserConfig struct {
	// Engine selects the render backend: "browser" (Chromium via rod)
	// or "static" (plain HTTP fetch, no JS execution).
	Engine string // default: "browser"

	// Headless controls whether Chromium runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for all requests.
	Proxy string

	// BlockedResourceTypes lists resource types the browser engine blocks.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// ExtractConfig controls per-page extraction.
type ExtractConfig struct {
	// StartURL is the first listing page of the run.
	StartURL string

	// ItemsChain locates the repeated listing elements. Alternatives are
	// pipe-separated and tried in order.
	ItemsChain []string

	// TitleChain, PriceChain and LinkChain locate fields relative to one
	// listing element.
	TitleChain []string
	PriceChain []string
	LinkChain  []string

	// DetailMarker is the path segment that anchors id derivation in
	// detail URLs (e.g. "itm" for /itm/.../123456789012).
	DetailMarker string // default: "itm"

	// WaitTimeout bounds the wait for the first listing element.
	WaitTimeout time.Duration // default: 18s

	// MaxItemsPerPage caps extraction on a single page.
	MaxItemsPerPage int // default: 500

	// ConsentTimeout bounds the wait for a clicked consent overlay to
	// disappear.
	ConsentTimeout time.Duration // default: 8s
}

// PaginationConfig controls the pagination controller.
type PaginationConfig struct {
	// Mode is "url" (page-number query parameter) or "next_button".
	Mode string // default: "url"

	// PageParam is the query parameter name for url mode.
	PageParam string // default: "page"

	// NextChain locates the next-page control in next_button mode.
	NextChain []string

	// Ceiling is the hard page-count limit for a run.
	Ceiling int // default: 10

	// DelayMin and DelayMax bound the randomized inter-page delay.
	DelayMin time.Duration // default: 1s
	DelayMax time.Duration // default: 2500ms
}

// OutputConfig controls persistence and diagnostics.
type OutputConfig struct {
	// CSVPath is the output file for extracted listings.
	CSVPath string // default: "listings.csv"

	// DebugDir, when set, receives the full page markup and the first
	// listing element's markup for offline selector tuning.
	DebugDir string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
// The defaults target eBay-style category pages, the original deployment
// of this tool.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Engine:     envOr("LISTGRAB_ENGINE", EngineBrowser),
			Headless:   envBoolOr("LISTGRAB_HEADLESS", true),
			NoSandbox:  envBoolOr("LISTGRAB_NO_SANDBOX", false),
			BrowserBin: os.Getenv("LISTGRAB_BROWSER_BIN"),
			Proxy:      os.Getenv("LISTGRAB_PROXY"),
			BlockedResourceTypes: envChainOr("LISTGRAB_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Extract: ExtractConfig{
			StartURL: envOr("LISTGRAB_START_URL",
				"https://www.ebay.ch/b/Reisegitarren/159948/bn_7204344"),
			ItemsChain: envChainOr("LISTGRAB_ITEMS_SELECTORS", []string{
				"li.brwrvr__item-card", "li.brwrvr__item-card--list", "li.s-item", ".s-item",
			}),
			TitleChain: envChainOr("LISTGRAB_TITLE_SELECTORS", []string{
				"h3.s-item__title", ".s-item__title", ".brwrvr__title", "h3",
			}),
			PriceChain: envChainOr("LISTGRAB_PRICE_SELECTORS", []string{
				"span.s-item__price", ".s-item__price", ".brwrvr__price",
				"span[aria-label*='Preis']", "div.s-item__detail span",
				"span.bsig__price", "span.bsig__price--display",
			}),
			LinkChain: envChainOr("LISTGRAB_LINK_SELECTORS", []string{
				"a.s-item__link", "a[href*='/itm/']", "a",
			}),
			DetailMarker:    envOr("LISTGRAB_DETAIL_MARKER", "itm"),
			WaitTimeout:     envDurationOr("LISTGRAB_WAIT_TIMEOUT", 18*time.Second),
			MaxItemsPerPage: envIntOr("LISTGRAB_MAX_ITEMS", 500),
			ConsentTimeout:  envDurationOr("LISTGRAB_CONSENT_TIMEOUT", 8*time.Second),
		},
		Pagination: PaginationConfig{
			Mode:      envOr("LISTGRAB_PAGINATION", ModeURLParam),
			PageParam: envOr("LISTGRAB_PAGE_PARAM", "page"),
			NextChain: envChainOr("LISTGRAB_NEXT_SELECTORS", []string{
				"a.pagination__next", ".pagination-next", "a[rel='next']",
			}),
			Ceiling:  envIntOr("LISTGRAB_PAGE_CEILING", 10),
			DelayMin: envDurationOr("LISTGRAB_DELAY_MIN", time.Second),
			DelayMax: envDurationOr("LISTGRAB_DELAY_MAX", 2500*time.Millisecond),
		},
		Output: OutputConfig{
			CSVPath:  envOr("LISTGRAB_OUTPUT_CSV", "listings.csv"),
			DebugDir: os.Getenv("LISTGRAB_DEBUG_DIR"),
		},
		Log: LogConfig{
			Level:  envOr("LISTGRAB_LOG_LEVEL", "info"),
			Format: envOr("LISTGRAB_LOG_FORMAT", "text"),
		},
	}
}

// Validate checks the configuration for problems that would otherwise only
// surface mid-run: empty or unparsable selector chains, an impossible
// engine/pagination combination, and nonsensical bounds.
func (c *Config) Validate() error {
	if c.Extract.StartURL == "" {
		return fmt.Errorf("start URL must not be empty")
	}
	if c.Browser.Engine != EngineBrowser && c.Browser.Engine != EngineStatic {
		return fmt.Errorf("unknown engine %q", c.Browser.Engine)
	}
	if c.Pagination.Mode != ModeURLParam && c.Pagination.Mode != ModeNextButton {
		return fmt.Errorf("unknown pagination mode %q", c.Pagination.Mode)
	}
	if c.Browser.Engine == EngineStatic && c.Pagination.Mode == ModeNextButton {
		return fmt.Errorf("next_button pagination needs the browser engine; the static engine cannot dispatch clicks")
	}
	if c.Pagination.Ceiling < 1 {
		return fmt.Errorf("page ceiling must be >= 1, got %d", c.Pagination.Ceiling)
	}
	if c.Extract.MaxItemsPerPage < 1 {
		return fmt.Errorf("max items per page must be >= 1, got %d", c.Extract.MaxItemsPerPage)
	}
	if c.Pagination.DelayMax < c.Pagination.DelayMin {
		return fmt.Errorf("inter-page delay range is inverted (%s > %s)",
			c.Pagination.DelayMin, c.Pagination.DelayMax)
	}

	chains := map[string][]string{
		"items": c.Extract.ItemsChain,
		"title": c.Extract.TitleChain,
		"price": c.Extract.PriceChain,
		"link":  c.Extract.LinkChain,
	}
	if c.Pagination.Mode == ModeNextButton {
		chains["next"] = c.Pagination.NextChain
	}
	for name, chain := range chains {
		if len(chain) == 0 {
			return fmt.Errorf("%s selector chain must not be empty", name)
		}
		for _, sel := range chain {
			if _, err := cascadia.Parse(sel); err != nil {
				return fmt.Errorf("%s selector %q: %w", name, sel, err)
			}
		}
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envChainOr splits a pipe-separated list. Selector alternatives regularly
// contain commas, so "|" is the separator throughout.
func envChainOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, "|")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
