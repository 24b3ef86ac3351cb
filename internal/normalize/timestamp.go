package normalize

import (
	"strings"
	"time"
)

// timestampLayouts is the accepted parse order: strict ISO-8601 first
// (a trailing Z reads as UTC), then the sheet-export format
// month/day/year hour:minute with optional seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// Timestamp parses heterogeneous date/time text into a UTC instant.
// The second return is false for empty or unparseable text; malformed
// legacy data must never block a campaign, so there is no error path.
func Timestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
