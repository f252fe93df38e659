package models

import (
	"errors"
	"testing"
)

func TestScrapeError_Format(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewScrapeError(ErrCodeNavigation, "navigation to https://x failed", cause)

	want := "NAVIGATION_FAILED: navigation to https://x failed: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = NewScrapeError(ErrCodeInvalidConfig, "empty start URL", nil)
	if got := err.Error(); got != "INVALID_CONFIG: empty start URL" {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestScrapeError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewScrapeError(ErrCodePersist, "write header", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestListing_Keep(t *testing.T) {
	cases := []struct {
		l    Listing
		want bool
	}{
		{Listing{ID: "123456"}, true},
		{Listing{Link: "https://x/itm/123456"}, true},
		{Listing{Title: "nur Titel", Price: "CHF 1.00"}, false},
		{Listing{}, false},
	}
	for _, c := range cases {
		if got := c.l.Keep(); got != c.want {
			t.Errorf("Keep(%+v) = %v, want %v", c.l, got, c.want)
		}
	}
}
