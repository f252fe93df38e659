package paginate

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/use-agent/listgrab/browser"
	"github.com/use-agent/listgrab/config"
	"github.com/use-agent/listgrab/models"
)

// Reason explains why a pagination run terminated.
type Reason string

const (
	// ReasonCeilingReached: the page-count safety bound was hit. Enforced
	// in both modes regardless of what the page claims about further
	// results, so a next-control that never disables cannot run away.
	ReasonCeilingReached Reason = "ceiling_reached"

	// ReasonEmptyPage: a page yielded no records; treated as end of results.
	ReasonEmptyPage Reason = "empty_page"

	// ReasonNoNextControl: next_button mode found no next control.
	ReasonNoNextControl Reason = "no_next_control"

	// ReasonDisabled: the next control exists but is disabled.
	ReasonDisabled Reason = "next_control_disabled"

	// ReasonNavigationTimeout: the render never transitioned after
	// activating the next control.
	ReasonNavigationTimeout Reason = "navigation_timeout"

	// ReasonNavigationFailed: navigation or next-control activation errored.
	ReasonNavigationFailed Reason = "navigation_failed"

	// ReasonCanceled: the run was aborted between pages.
	ReasonCanceled Reason = "canceled"
)

// PageScraper is the per-page extraction dependency. An empty url means
// "scrape the page as currently rendered".
type PageScraper interface {
	Scrape(ctx context.Context, page browser.Page, url string) ([]models.Listing, error)
}

// Controller drives a PageScraper across pages with one of two advance
// strategies, detecting end-of-results and enforcing the page ceiling.
// A single controller drives a single run; it is not reused.
type Controller struct {
	cfg     config.PaginationConfig
	scraper PageScraper

	// waitTimeout bounds the post-click staleness wait in next_button mode.
	waitTimeout time.Duration
}

// New creates a controller. waitTimeout is the staleness-wait bound for
// next_button advances.
func New(cfg config.PaginationConfig, scraper PageScraper, waitTimeout time.Duration) *Controller {
	return &Controller{cfg: cfg, scraper: scraper, waitTimeout: waitTimeout}
}

// advancer is the per-strategy part of the loop: where the next page comes
// from and how to move to it. Everything else (scrape, accumulate,
// terminate, delay) is shared.
type advancer interface {
	// pageURL returns the URL to load for the 1-based page index, or ""
	// to scrape the current render in place.
	pageURL(index int) string

	// advance moves to the next page. ok=false terminates the run with
	// the returned reason.
	advance(ctx context.Context) (Reason, bool)
}

// Run pages through startURL until termination and returns the records of
// every non-empty page in visit order, plus why it stopped. Cancellation
// never interrupts a page mid-extraction: the page in flight is finished,
// its records are kept, and the run stops before the next one.
func (c *Controller) Run(ctx context.Context, page browser.Page, startURL string) ([]models.Listing, Reason) {
	var adv advancer
	if c.cfg.Mode == config.ModeNextButton {
		adv = &nextButtonAdvance{
			page:        page,
			chain:       c.cfg.NextChain,
			waitTimeout: c.waitTimeout,
			startURL:    startURL,
		}
	} else {
		adv = &urlParamAdvance{baseURL: startURL, param: c.cfg.PageParam}
	}

	var all []models.Listing
	for index := 1; ; index++ {
		if ctx.Err() != nil {
			slog.Info("run canceled", "pagesVisited", index-1)
			return all, ReasonCanceled
		}

		records, err := c.scraper.Scrape(ctx, page, adv.pageURL(index))
		if err != nil {
			slog.Warn("page scrape failed, stopping pagination", "page", index, "error", err)
			return all, ReasonNavigationFailed
		}
		// A cancellation landing mid-scrape makes the page come back
		// empty; that is an aborted run, not the end of the results.
		if ctx.Err() != nil {
			all = append(all, records...)
			slog.Info("run canceled", "pagesVisited", index)
			return all, ReasonCanceled
		}
		if len(records) == 0 {
			slog.Info("empty page, stopping pagination", "page", index)
			return all, ReasonEmptyPage
		}
		all = append(all, records...)
		slog.Info("page accumulated", "page", index, "records", len(records), "total", len(all))

		if index >= c.cfg.Ceiling {
			slog.Info("page ceiling reached", "ceiling", c.cfg.Ceiling)
			return all, ReasonCeilingReached
		}
		if reason, ok := adv.advance(ctx); !ok {
			return all, reason
		}
		c.delay(ctx)
	}
}

// delay sleeps a uniformly random duration from the configured range, so
// page requests do not form a mechanical cadence.
func (c *Controller) delay(ctx context.Context) {
	d := c.cfg.DelayMin
	if span := c.cfg.DelayMax - c.cfg.DelayMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// urlParamAdvance pages by merging a page-number query parameter onto the
// base URL. Advancing is just computing the next URL, so it never fails.
type urlParamAdvance struct {
	baseURL string
	param   string
}

func (a *urlParamAdvance) pageURL(index int) string {
	return BuildPageURL(a.baseURL, a.param, index)
}

func (a *urlParamAdvance) advance(context.Context) (Reason, bool) { return "", true }

// BuildPageURL appends or merges the page parameter onto base: with "?"
// when base has no query string, else with "&".
func BuildPageURL(base, param string, index int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + param + "=" + strconv.Itoa(index)
}

// nextButtonAdvance pages by activating the page's own next control and
// waiting for the old render to go stale.
type nextButtonAdvance struct {
	page        browser.Page
	chain       []string
	waitTimeout time.Duration
	startURL    string
}

// pageURL: only the first page is navigated to; after that the click has
// already moved the render, so scraping happens in place.
func (a *nextButtonAdvance) pageURL(index int) string {
	if index == 1 {
		return a.startURL
	}
	return ""
}

func (a *nextButtonAdvance) advance(ctx context.Context) (Reason, bool) {
	control := a.locate()
	if control == nil {
		slog.Info("no next control on page, stopping pagination")
		return ReasonNoNextControl, false
	}
	if isDisabled(control) {
		slog.Info("next control disabled, stopping pagination")
		return ReasonDisabled, false
	}
	if err := browser.Activate(a.page, control); err != nil {
		slog.Warn("next control activation failed", "error", err)
		return ReasonNavigationFailed, false
	}
	// The clicked control belongs to the outgoing render; once it goes
	// stale the navigation has actually happened.
	if err := a.page.WaitStale(control, a.waitTimeout); err != nil {
		slog.Warn("render did not transition after next click", "error", err)
		return ReasonNavigationTimeout, false
	}
	return "", true
}

// locate resolves the next-control chain: first alternative with a match wins.
func (a *nextButtonAdvance) locate() browser.Element {
	for _, sel := range a.chain {
		els, err := a.page.Elements(nil, sel)
		if err == nil && len(els) > 0 {
			return els[0]
		}
	}
	return nil
}

// isDisabled reports a truthy disabled state: a disabled attribute (bare
// or any value but "false") or aria-disabled="true".
func isDisabled(el browser.Element) bool {
	if v, ok := el.Attr("disabled"); ok && v != "false" {
		return true
	}
	if v, ok := el.Attr("aria-disabled"); ok && v == "true" {
		return true
	}
	return false
}
