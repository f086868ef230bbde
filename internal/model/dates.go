package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the day.month.year form used in settings and reports
	DateLayout = "2.1.2006"
	isoLayout  = "2006-01-02"
)

// ParseDate parses a day.month.year date (leading zeros optional) or an
// ISO date as returned by the invoicing service
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(isoLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected day.month.year", s)
}

// FormatDate renders t as day.month.year without leading zeros
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LocalizeDate converts a date string to day.month.year. Values that do
// not parse are returned unchanged.
func LocalizeDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// the listing API may append a time part
	if i := strings.IndexAny(s, " T"); i == len(isoLayout) {
		s = s[:i]
	}
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return FormatDate(t)
}
