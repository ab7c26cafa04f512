package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// MonthBounds parses a "YYYY-MM" month and returns its first and last day
func MonthBounds(month string) (time.Time, time.Time, error) {
	first, err := time.Parse(monthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// Weekday returns the English weekday name of a "YYYY-MM-DD" date, or "" if it does not parse
func Weekday(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
