package jobs

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var agePattern = regexp.MustCompile(`(?i)(\d+|an?|one)\+?\s*(minute|min|hour|hr|day|week|wk|month|mo|year|yr)s?\b`)

// ParseAge reads relative posting dates such as "3 days ago", "an hour ago",
// "30+ days ago", "today" or "just posted".
func ParseAge(s string) (time.Duration, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "":
		return 0, false
	case "today", "just posted", "just now", "new":
		return 0, true
	case "yesterday":
		return day, true
	}

	m := agePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}

	n := 1
	if v, err := strconv.Atoi(m[1]); err == nil {
		n = v
	}

	var unit time.Duration
	switch m[2] {
	case "minute", "min":
		unit = time.Minute
	case "hour", "hr":
		unit = time.Hour
	case "day":
		unit = day
	case "week", "wk":
		unit = week
	case "month", "mo":
		unit = month
	case "year", "yr":
		unit = year
	}
	return time.Duration(n) * unit, true
}

// Recency options and the maximum posting age in days they stand for. Zero
// means no limit.
const (
	RecencyDay     = "1 day"
	RecencyThree   = "3 days"
	RecencyWeek    = "1 week"
	RecencyTwoWeek = "2 weeks"
	RecencyMonth   = "1 month"
	RecencyAny     = "any time"
)

var recencyDays = map[string]int{
	RecencyDay:     1,
	RecencyThree:   3,
	RecencyWeek:    7,
	RecencyTwoWeek: 14,
	RecencyMonth:   30,
	RecencyAny:     0,
}

// MaxAgeDays converts a recency option into days. Unknown options mean no
// limit.
func MaxAgeDays(recency string) int {
	return recencyDays[strings.ToLower(strings.TrimSpace(recency))]
}
