// Package workday holds calendar helpers shared by attendance and payroll.
// All dates are calendar dates normalized to midnight UTC.
package workday

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout   = "2006-01-02"
	PeriodLayout = "2006-01"
)

// Date returns the calendar date of t in loc, as midnight UTC.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t without changing zones.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ValidPeriod reports whether month is 1-12 and year is a plausible calendar year.
func ValidPeriod(year, month int) bool {
	return month >= 1 && month <= 12 && year >= 1900 && year <= 9999
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (year, month int, err error) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}

func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year, month int) (first, last time.Time) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

func DaysIn(year, month int) int {
	_, last := MonthBounds(year, month)
	return last.Day()
}

// YearToMonthEnd returns Jan 1 of year and the last day of month.
func YearToMonthEnd(year, month int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, to = MonthBounds(year, month)
	return from, to
}

// ParseClock parses a 24h wall clock value such as "09:30" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
