// Package timeutil does the clock and calendar arithmetic for sessions.
// All dates are naive YYYY-MM-DD strings and all clocks are HH:mm strings;
// there is deliberately no timezone handling anywhere in here.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	minutesPerDay = 24 * 60
)

// ParseClock converts an HH:mm string to minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: missing ':'", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return hours*60 + mins, nil
}

// ComputeDuration returns the minutes between start and end. An end that is
// numerically earlier than start means the interval crossed midnight and is
// pushed forward one day. start == end yields 0, which callers must reject.
func ComputeDuration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s, nil
}

// Interval normalizes a start/end clock pair to a half-open
// [start, end) range in minutes since midnight of the session's date,
// midnight-adjusted the same way as ComputeDuration.
func Interval(start, end string) (int, int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return s, e, nil
}

// Overlaps reports whether half-open ranges [a1,a2) and [b1,b2) intersect.
// Touching endpoints do not overlap.
func Overlaps(a1, a2, b1, b2 int) bool {
	return a1 < b2 && a2 > b1
}

// DateKey renders t as a YYYY-MM-DD calendar-day key.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD key back to a time at local midnight.
func ParseDate(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDate(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

// IsFuture reports whether the date+start instant lies strictly after now.
func IsFuture(date, start string, now time.Time) bool {
	day, err := ParseDate(date)
	if err != nil {
		return false
	}
	mins, err := ParseClock(start)
	if err != nil {
		return false
	}
	return day.Add(time.Duration(mins) * time.Minute).After(now)
}

// FormatDuration renders minutes as "2h 15m", "45m" or "3h".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
