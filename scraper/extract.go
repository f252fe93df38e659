package scraper

import (
	"strings"

	"github.com/use-agent/listgrab/browser"
	"github.com/use-agent/listgrab/models"
)

// Extractor pulls the typed fields of one listing element through its
// configured chains.
type Extractor struct {
	Title Chain
	Price Chain
	Link  Chain
}

// Extract reads title, price and link from one listing element. The
// returned record has no ID yet; identifier derivation runs on the link
// afterwards.
func (x *Extractor) Extract(page browser.Page, scope browser.Element) models.Listing {
	rec := models.Listing{
		Title: ResolveText(page, scope, x.Title),
		Price: ResolveText(page, scope, x.Price),
		Link:  x.resolveLink(page, scope),
	}
	if rec.Title == "" {
		rec.Title = fallbackTitle(scope)
	}
	return rec
}

// resolveLink resolves the link chain with hyperlink-aware reads: an <a>
// match yields its href, any other match (or an <a> without href) yields
// its text.
func (x *Extractor) resolveLink(page browser.Page, scope browser.Element) string {
	for _, sel := range x.Link {
		els, err := page.Elements(scope, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		el := els[0]
		if tag, err := el.Tag(); err == nil && tag == "a" {
			if href, ok := el.Attr("href"); ok && strings.TrimSpace(href) != "" {
				return strings.TrimSpace(href)
			}
		}
		if text, err := el.Text(); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

// fallbackTitle derives a title from the first non-empty line of the
// listing element's full text. Last resort only; it is far less reliable
// than a chain match.
func fallbackTitle(scope browser.Element) string {
	text, err := scope.Text()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}
