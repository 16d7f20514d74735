package utils

import (
	"time"
)

// DateLocation is the application's timezone. UTC until InitializeDateLocation runs.
var DateLocation = time.UTC

// InitializeDateLocation loads the application timezone. Reservations are stored as absolute
// instants; the location only affects day bucketing (availability day-of-week, numbering).
func InitializeDateLocation(timezone string) error {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	DateLocation = loc
	return nil
}

// NormalizeDate converts a time.Time to midnight of the same day in the application timezone
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.In(DateLocation).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, DateLocation)
}

// Today returns today's date normalized at midnight in the application timezone
func Today() time.Time {
	return NormalizeDate(time.Now())
}

// ParseTimestamp accepts RFC3339 (with or without fractional seconds) and the
// zone-less "2006-01-02T15:04" form, the latter interpreted in DateLocation.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, DateLocation); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: value}
}
