package scraper

import (
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/listgrab/browser"
)

// attrCandidates are tried first: attribute- and class-based matches for
// accept controls, generic before site-specific, German and English.
var attrCandidates = []string{
	"button[aria-label*='accept']",
	"button[aria-label*='Accept']",
	"button[aria-label*='Akzeptieren']",
	"button[aria-label*='Einverstanden']",
	"button[class*='accept']",
	"button[class*='cookie']",
	"button[class*='consent']",
	"div[class*='cookie'] button",
	"div[class*='consent'] button",
	"div[id*='gdpr'] button",
}

// consentTokens drive the case-insensitive text scan over interactive
// elements, and the nested-document sweep.
var consentTokens = []string{"accept", "akzept", "einverstanden", "alle akzeptieren", "agree", "cookie"}

// DismissConsent scans the page for a consent/cookie overlay and removes it
// by activating an accept control. It returns true iff an overlay control
// was activated; absence of any overlay is a normal outcome, not an error.
//
// Candidate order: attribute matches, then text matches on top-level
// buttons and links, then a sweep of nested documents (banners regularly
// live in an iframe). Scanning stops at the first successful activation.
func DismissConsent(page browser.Page, timeout time.Duration) bool {
	for _, sel := range attrCandidates {
		els, err := page.Elements(nil, sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			if browser.Activate(page, el) == nil {
				slog.Info("consent overlay dismissed", "selector", sel)
				awaitGone(page, el, timeout)
				return true
			}
		}
	}

	if dismissByText(page, timeout) {
		return true
	}

	frames, err := page.Elements(nil, "iframe")
	if err == nil {
		for i, frame := range frames {
			if dismissInFrame(page, frame, timeout) {
				slog.Info("consent overlay dismissed in nested document", "frame", i)
				return true
			}
		}
	}

	slog.Debug("no consent overlay found")
	return false
}

// dismissByText scans interactive elements of the current document for
// accept-like text and activates the first hit.
func dismissByText(page browser.Page, timeout time.Duration) bool {
	els, err := page.Elements(nil, "button, a")
	if err != nil {
		return false
	}
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(text))
		if lower == "" {
			continue
		}
		for _, token := range consentTokens {
			if strings.Contains(lower, token) {
				if browser.Activate(page, el) == nil {
					slog.Info("consent overlay dismissed", "text", lower)
					awaitGone(page, el, timeout)
					return true
				}
				break
			}
		}
	}
	return false
}

// dismissInFrame runs the text scan inside one nested document. The
// top-level document context is restored on every exit path; a stale
// nested context would silently break all subsequent queries.
func dismissInFrame(page browser.Page, frame browser.Element, timeout time.Duration) bool {
	if err := page.EnterFrame(frame); err != nil {
		return false
	}
	defer page.ExitFrames()
	return dismissByText(page, timeout)
}

// awaitGone waits for the activated control to detach or disappear, so
// extraction does not race the overlay's teardown. Best effort; a stubborn
// banner only costs the timeout.
func awaitGone(page browser.Page, el browser.Element, timeout time.Duration) {
	if err := page.WaitStale(el, timeout); err != nil {
		time.Sleep(800 * time.Millisecond)
	}
}
