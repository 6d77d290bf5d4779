package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatRelative renders a timestamp as the human-readable relative form
// stored on catalog records ("today", "3 days ago", "2 months ago").
func FormatRelative(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	case days < 30:
		return strconv.Itoa(days/7) + " weeks ago"
	case days < 365:
		return strconv.Itoa(days/30) + " months ago"
	default:
		return strconv.Itoa(days/365) + " years ago"
	}
}

var relativePattern = regexp.MustCompile(`^(\d+)\s+(day|week|month|year)s?\s+ago$`)

// ParseRelativeAge converts a relative form back to an approximate age in
// days, for the consumer's recency sort. Unrecognized strings report ok
// false and sort last.
func ParseRelativeAge(s string) (days int, ok bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "today" {
		return 0, true
	}

	m := relativePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "day":
		return n, true
	case "week":
		return n * 7, true
	case "month":
		return n * 30, true
	default:
		return n * 365, true
	}
}
