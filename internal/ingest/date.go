package ingest

import (
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"strings"
)

// resolveDate applies the unparseable-date policy to a raw date string. An
// empty string is simply "no date". A non-empty string that does not parse
// yields nil under DatesOmit and calendar.Fallback under DatesFallback, plus
// a warning message in both cases.
func resolveDate(raw string, policy config.DatePolicy) (*calendar.Date, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	d, err := calendar.Parse(raw)
	if err == nil {
		return &d, ""
	}
	if policy == config.DatesFallback {
		fb := calendar.Fallback
		return &fb, fmt.Sprintf("unparseable date %q, using fallback %s", raw, fb.ISO())
	}
	return nil, fmt.Sprintf("unparseable date %q, leaving episode undated", raw)
}
