package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/listgrab/browser"
	"github.com/use-agent/listgrab/config"
	"github.com/use-agent/listgrab/models"
)

// PageScraper extracts listing records from one rendered page.
type PageScraper struct {
	cfg   config.ExtractConfig
	items Chain
	ex    *Extractor
	ids   *IDDeriver
	debug DebugSink
}

// NewPageScraper builds a page scraper from the extraction config.
func NewPageScraper(cfg config.ExtractConfig) *PageScraper {
	return &PageScraper{
		cfg:   cfg,
		items: Chain(cfg.ItemsChain),
		ex: &Extractor{
			Title: Chain(cfg.TitleChain),
			Price: Chain(cfg.PriceChain),
			Link:  Chain(cfg.LinkChain),
		},
		ids: NewIDDeriver(cfg.DetailMarker),
	}
}

// SetDebugSink enables markup dumps for selector tuning.
func (s *PageScraper) SetDebugSink(sink DebugSink) { s.debug = sink }

// Scrape navigates to url (an empty url scrapes the page as currently
// rendered), dismisses any consent overlay, waits for listings to appear
// and extracts them in document order.
//
// A page where no listing appears within the wait window is "no results",
// not an error: the result is an empty slice. Errors are reserved for
// failed navigation.
func (s *PageScraper) Scrape(ctx context.Context, page browser.Page, url string) ([]models.Listing, error) {
	if url != "" {
		slog.Info("loading page", "url", url)
		if err := page.Navigate(url); err != nil {
			return nil, models.NewScrapeError(models.ErrCodeNavigation, "navigation to "+url+" failed", err)
		}
	}

	// Overlay dismissal is best effort; extraction proceeds either way.
	DismissConsent(page, s.cfg.ConsentTimeout)

	if !s.waitPresent(ctx, page) {
		slog.Warn("no listing element appeared within wait window",
			"url", page.CurrentURL(), "timeout", s.cfg.WaitTimeout)
		s.dumpPage(page)
		return nil, nil
	}
	s.dumpPage(page)

	els := s.listingElements(page)
	slog.Info("listing elements found", "count", len(els))
	if len(els) > 0 && s.debug != nil {
		if markup, err := els[0].OuterHTML(); err == nil {
			s.debug.Dump(DumpFirstItem, markup)
		}
	}

	records := make([]models.Listing, 0, len(els))
	for _, el := range els {
		if len(records) >= s.cfg.MaxItemsPerPage {
			slog.Warn("per-page item cap reached", "cap", s.cfg.MaxItemsPerPage)
			break
		}
		rec := s.ex.Extract(page, el)
		rec.ID = s.ids.DeriveID(rec.Link)
		if rec.Keep() {
			records = append(records, rec)
		}
	}

	slog.Info("records extracted", "count", len(records))
	return records, nil
}

// waitPresent polls the items chain until a listing element exists or the
// wait window closes.
func (s *PageScraper) waitPresent(ctx context.Context, page browser.Page) bool {
	deadline := time.Now().Add(s.cfg.WaitTimeout)
	for {
		for _, sel := range s.items {
			if ok, err := page.Exists(sel); err == nil && ok {
				return true
			}
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// listingElements enumerates the page's listing elements via the items
// chain: first alternative yielding any matches wins.
func (s *PageScraper) listingElements(page browser.Page) []browser.Element {
	for _, sel := range s.items {
		els, err := page.Elements(nil, sel)
		if err == nil && len(els) > 0 {
			return els
		}
	}
	return nil
}

func (s *PageScraper) dumpPage(page browser.Page) {
	if s.debug == nil {
		return
	}
	if markup, err := page.HTML(); err == nil {
		s.debug.Dump(DumpPage, markup)
	}
}
