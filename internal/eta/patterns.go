package eta

import (
	"regexp"
	"strconv"
	"time"
)

// Layout is the normalized timestamp format of every extracted ETA/ETD.
const Layout = "2006-01-02 15:04:05"

type order int

const (
	dayFirst order = iota
	yearFirst
)

type shape struct {
	name    string
	order   order
	pattern *regexp.Regexp
	hasTime bool
}

// Full date+time shapes are tried before the date-only ones.
var shapes = []shape{
	{"d/m/y h:m", dayFirst, regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4})(?:\s*,?\s*|T)(\d{1,2})[:.](\d{2})(?::(\d{2}))?`), true},
	{"y-m-d h:m", yearFirst, regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})(?:\s+|T)(\d{1,2}):(\d{2})(?::(\d{2}))?`), true},
	{"d-m-y h:m", dayFirst, regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})(?:\s*,?\s*|T)(\d{1,2})[:.](\d{2})(?::(\d{2}))?`), true},
	{"d/m/y", dayFirst, regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4})\b`), false},
	{"y-m-d", yearFirst, regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`), false},
	{"d-m-y", dayFirst, regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`), false},
}

var timeOnly = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?\s*(?:hrs?|h)?$`)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// buildDate validates the calendar values instead of letting time.Date roll them over.
func buildDate(year, month, day, hour, minute, second int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// fromMatch turns one regexp submatch into a timestamp. Day-first is assumed unless the
// second component cannot be a month.
func (s shape) fromMatch(m []string) (time.Time, bool) {
	var year, month, day int
	switch s.order {
	case yearFirst:
		year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
	default:
		first, second := atoi(m[1]), atoi(m[2])
		year, day, month = atoi(m[3]), first, second
		if second > 12 && first <= 12 {
			day, month = second, first
		}
	}
	var hour, minute, second int
	if s.hasTime {
		hour, minute = atoi(m[4]), atoi(m[5])
		if len(m) > 6 && m[6] != "" {
			second = atoi(m[6])
		}
	}
	return buildDate(year, month, day, hour, minute, second)
}

func parseTimeOnly(cell string) (hour, minute, second int, ok bool) {
	m := timeOnly.FindStringSubmatch(cell)
	if m == nil {
		return 0, 0, 0, false
	}
	hour, minute = atoi(m[1]), atoi(m[2])
	if m[3] != "" {
		second = atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, false
	}
	return hour, minute, second, true
}
