package usecase

import (
	"time"

	"github.com/araddon/dateparse"
)

// dateLayout is the canonical lexicographically-sortable date format used
// across all stored rows.
const dateLayout = "2006-01-02"

// ParseDate attempts to parse an arbitrary date-like string. The boolean
// result makes the unparsed case explicit; callers decide what an empty
// date means instead of an error being swallowed here.
// Naive timestamps are interpreted in loc, zone-aware ones are converted.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(loc), true
}

// NormalizeDate formats an arbitrary date-like string to YYYY-MM-DD, or
// returns an empty string when the input cannot be parsed. Normalizing an
// already-normalized date yields the same string.
func NormalizeDate(raw string, loc *time.Location) string {
	t, ok := ParseDate(raw, loc)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}
