package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/use-agent/listgrab/browser"
)

const listingFixture = `<html><body>
<div id="banner">
  <span class="notice">   </span>
</div>
<ul class="results">
  <li class="s-item">
    <a class="s-item__link" href="https://www.ebay.ch/itm/ultra-light/123456789012?hash=abc">
      <h3 class="s-item__title">Traveler Ultra-Light Sonderedition</h3>
    </a>
    <span class="s-item__price">CHF 299.00</span>
  </li>
  <li class="s-item">
    <a href="https://www.ebay.ch/itm/987654321098">
      <h3>Mini Dreadnought 3/4</h3>
    </a>
    <span class="brwrvr__price">CHF 149.50</span>
  </li>
  <li class="s-item sponsored">
    <div class="promo">Gesponsert</div>
  </li>
</ul>
</body></html>`

// staticPage loads fixture markup into the static engine; the fetch stub
// stands in for the network.
func staticPage(t *testing.T, markup string) *browser.StaticPage {
	t.Helper()
	p := browser.NewStaticPage(context.Background(), func(context.Context, string) ([]byte, error) {
		return []byte(markup), nil
	})
	require.NoError(t, p.Navigate("https://example.test/list"))
	return p
}

func firstItem(t *testing.T, p *browser.StaticPage) browser.Element {
	t.Helper()
	els, err := p.Elements(nil, "li.s-item")
	require.NoError(t, err)
	require.NotEmpty(t, els)
	return els[0]
}

func TestResolveText_FirstAlternativeWins(t *testing.T) {
	p := staticPage(t, listingFixture)
	item := firstItem(t, p)

	// Both alternatives match; the result must come from the first.
	got := ResolveText(p, item, Chain{"h3.s-item__title", "span.s-item__price"})
	require.Equal(t, "Traveler Ultra-Light Sonderedition", got)
}

func TestResolveText_FallsThroughMisses(t *testing.T) {
	p := staticPage(t, listingFixture)
	item := firstItem(t, p)

	got := ResolveText(p, item, Chain{".does-not-exist", ".also-missing", "span.s-item__price"})
	require.Equal(t, "CHF 299.00", got)
}

func TestResolveText_WhitespaceOnlyIsAMiss(t *testing.T) {
	p := staticPage(t, listingFixture)

	// .notice matches but contains only whitespace; resolution must move on.
	got := ResolveText(p, nil, Chain{"span.notice", "h3.s-item__title"})
	require.Equal(t, "Traveler Ultra-Light Sonderedition", got)
}

func TestResolveText_ExhaustedChainReturnsEmpty(t *testing.T) {
	p := staticPage(t, listingFixture)
	item := firstItem(t, p)

	require.Equal(t, "", ResolveText(p, item, Chain{".nope", ".nada"}))
}

func TestResolveAttr(t *testing.T) {
	p := staticPage(t, listingFixture)
	item := firstItem(t, p)

	got := ResolveAttr(p, item, Chain{"a.s-item__link"}, "href")
	require.Equal(t, "https://www.ebay.ch/itm/ultra-light/123456789012?hash=abc", got)

	// Attribute absent on the first match counts as a miss.
	require.Equal(t, "", ResolveAttr(p, item, Chain{"h3.s-item__title"}, "href"))
}
