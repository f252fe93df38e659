package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testExtractor() *Extractor {
	return &Extractor{
		Title: Chain{"h3.s-item__title", "h3"},
		Price: Chain{"span.s-item__price", ".brwrvr__price"},
		Link:  Chain{"a.s-item__link", "a[href*='/itm/']", "a"},
	}
}

func TestExtract_AllFields(t *testing.T) {
	p := staticPage(t, listingFixture)
	item := firstItem(t, p)

	rec := testExtractor().Extract(p, item)
	require.Equal(t, "Traveler Ultra-Light Sonderedition", rec.Title)
	require.Equal(t, "CHF 299.00", rec.Price)
	require.Equal(t, "https://www.ebay.ch/itm/ultra-light/123456789012?hash=abc", rec.Link)
}

func TestExtract_LinkPrefersHrefOnHyperlink(t *testing.T) {
	p := staticPage(t, `<html><body>
		<div class="card">
			<a href="https://x.test/itm/123456789">zum Artikel</a>
		</div>
	</body></html>`)
	els, err := p.Elements(nil, "div.card")
	require.NoError(t, err)

	rec := testExtractor().Extract(p, els[0])
	require.Equal(t, "https://x.test/itm/123456789", rec.Link)
}

func TestExtract_LinkFallsBackToText(t *testing.T) {
	// A hyperlink without a target: its text is better than nothing.
	p := staticPage(t, `<html><body>
		<div class="card">
			<a>https://x.test/itm/555666777</a>
		</div>
	</body></html>`)
	els, err := p.Elements(nil, "div.card")
	require.NoError(t, err)

	rec := testExtractor().Extract(p, els[0])
	require.Equal(t, "https://x.test/itm/555666777", rec.Link)
}

func TestExtract_TitleFallbackFirstTextLine(t *testing.T) {
	p := staticPage(t, `<html><body>
		<div class="card">
			Gitarre ohne Titel-Element
			<a href="https://x.test/itm/123456789">mehr</a>
		</div>
	</body></html>`)
	els, err := p.Elements(nil, "div.card")
	require.NoError(t, err)

	rec := testExtractor().Extract(p, els[0])
	require.Equal(t, "Gitarre ohne Titel-Element", rec.Title)
}

func TestExtract_MissingFieldsStayEmpty(t *testing.T) {
	p := staticPage(t, listingFixture)
	els, err := p.Elements(nil, "li.sponsored")
	require.NoError(t, err)

	rec := testExtractor().Extract(p, els[0])
	require.Empty(t, rec.Link)
	require.Empty(t, rec.Price)
	// Title still falls back to the card text.
	require.Equal(t, "Gesponsert", rec.Title)
	require.False(t, rec.Keep())
}
