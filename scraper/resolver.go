package scraper

import (
	"strings"

	"github.com/use-agent/listgrab/browser"
)

// Chain is an ordered list of selector alternatives, most reliable first.
// Resolution tries each in order and stops at the first non-empty result;
// alternatives after the first hit are never consulted. Chains are
// evaluated fresh on every call since markup can legitimately differ
// between pages of the same run, so nothing is cached.
type Chain []string

// ResolveText returns the trimmed text of the first chain alternative that
// matches a descendant of scope with non-whitespace text. A miss is not an
// error: absent fields are expected, so the result is "" when the chain is
// exhausted.
func ResolveText(page browser.Page, scope browser.Element, chain Chain) string {
	for _, sel := range chain {
		els, err := page.Elements(scope, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		text, err := els[0].Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	}
	return ""
}

// ResolveAttr is ResolveText for an attribute value. An element matching an
// alternative but lacking the attribute (or carrying an empty one) counts
// as a miss and resolution moves on.
func ResolveAttr(page browser.Page, scope browser.Element, chain Chain, name string) string {
	for _, sel := range chain {
		els, err := page.Elements(scope, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		if v, ok := els[0].Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
