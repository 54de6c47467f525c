// Package timeutil provides timezone utilities for Lima (UTC-5), where the
// campus and the portal backend live.
// Handles parsing of backend timestamps and display formatting.
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LimaTZ is the Lima timezone (UTC-5, no DST).
var LimaTZ = time.FixedZone("America/Lima", -5*60*60)

// Display layouts.
const (
	FormatDate     = "2006-01-02"
	FormatTime     = "15:04"
	FormatDateTime = "2006-01-02 15:04"
)

// backendLayouts are the timestamp shapes the portal API emits. Naive
// timestamps (no offset) are server-local, i.e. Lima time.
var backendLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	FormatDate,
}

// ErrUnparsableTime is returned when a value matches none of the known layouts.
var ErrUnparsableTime = errors.New("timeutil: unparsable time")

// Now returns the current time in Lima timezone.
func Now() time.Time {
	return time.Now().In(LimaTZ)
}

// ToLima converts a time to Lima timezone.
func ToLima(t time.Time) time.Time {
	return t.In(LimaTZ)
}

// ParseBackend parses a timestamp produced by the portal API.
// An empty string yields the zero time and no error.
func ParseBackend(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range backendLayouts {
		if t, err := time.ParseInLocation(layout, value, LimaTZ); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTime, value)
}

// StartOfDay returns the start of the day (00:00:00) in Lima timezone.
func StartOfDay(t time.Time) time.Time {
	lima := ToLima(t)
	return time.Date(lima.Year(), lima.Month(), lima.Day(), 0, 0, 0, 0, LimaTZ)
}

// IsSameDay checks if two times are on the same day in Lima timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToLima(t1), ToLima(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// IsToday checks if the given time is today in Lima timezone.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// FormatDateTimeStr formats t as "YYYY-MM-DD HH:MM" in Lima timezone.
// The zero time formats as "-".
func FormatDateTimeStr(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return ToLima(t).Format(FormatDateTime)
}

// FormatRelative returns a human-readable relative time string.
func FormatRelative(t time.Time) string {
	return formatRelativeTo(t, Now())
}

func formatRelativeTo(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	var s string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		s = fmt.Sprintf("%d min", int(d.Minutes()))
	case d < 24*time.Hour:
		s = fmt.Sprintf("%d h", int(d.Hours()))
	case d < 30*24*time.Hour:
		s = fmt.Sprintf("%d d", int(d.Hours()/24))
	default:
		s = fmt.Sprintf("%d mo", int(d.Hours()/24/30))
	}

	if future {
		return "in " + s
	}
	return s + " ago"
}
