package dataset

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Layouts with a clock component mark the
// column as carrying times.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06",
	"01-02-06",
	"2-Jan-2006",
	"2-Jan-2006 15:04:05",
	"2-Jan-2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
}

// parseDate interprets s with the accepted layouts. Values carrying a zone
// offset are converted to UTC. hasClock reports a non-midnight UTC time of
// day.
func parseDate(s string) (t time.Time, hasClock bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		parsed = parsed.UTC()
		h, m, sec := parsed.Clock()
		return parsed, h != 0 || m != 0 || sec != 0 || parsed.Nanosecond() != 0, true
	}
	return time.Time{}, false, false
}
