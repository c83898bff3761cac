package record

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reHoursAgo = regexp.MustCompile(`(?i)(\d+)\s*hours?\s+ago`)
	reDaysAgo  = regexp.MustCompile(`(?i)(\d+)\s*days?\s+ago`)
	reWeeksAgo = regexp.MustCompile(`(?i)(\d+)\s*weeks?\s+ago`)
)

// RecencyToDays converts a raw recency phrase ("3 hours ago", "2 weeks ago")
// into a day count. A bare non-negative number is read as an hour count, the
// form some replies use for posted_hours. Hours round up to at least one day.
// Returns nil when the phrase doesn't match any known form.
func RecencyToDays(raw string) *int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
		days := n / 24
		if days < 1 {
			days = 1
		}
		return &days
	}
	if m := reHoursAgo.FindStringSubmatch(raw); m != nil {
		hours, _ := strconv.Atoi(m[1])
		days := hours / 24
		if days < 1 {
			days = 1
		}
		return &days
	}
	if m := reDaysAgo.FindStringSubmatch(raw); m != nil {
		days, _ := strconv.Atoi(m[1])
		return &days
	}
	if m := reWeeksAgo.FindStringSubmatch(raw); m != nil {
		weeks, _ := strconv.Atoi(m[1])
		days := weeks * 7
		return &days
	}
	return nil
}
