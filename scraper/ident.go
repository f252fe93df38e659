package scraper

import "regexp"

// IDDeriver parses detail-page URLs into stable listing identifiers.
//
// Detail URLs embed the identifier at variable depth, so derivation is a
// two-stage pattern match: a long digit run anchored after the known
// detail-path marker (higher confidence), then the first unanchored digit
// run of at least six digits. Both stages failing yields "".
type IDDeriver struct {
	anchored *regexp.Regexp
	bare     *regexp.Regexp
}

// NewIDDeriver compiles the patterns for the given detail-path marker
// (e.g. "itm" matches /itm/.../123456789012 and /itm/123456789012?...).
func NewIDDeriver(marker string) *IDDeriver {
	return &IDDeriver{
		anchored: regexp.MustCompile(`/` + regexp.QuoteMeta(marker) + `/(?:.*?/)?(\d{6,})`),
		bare:     regexp.MustCompile(`\d{6,}`),
	}
}

// DeriveID extracts the listing identifier from url, or "" when the URL
// carries none.
func (d *IDDeriver) DeriveID(url string) string {
	if url == "" {
		return ""
	}
	if m := d.anchored.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return d.bare.FindString(url)
}
