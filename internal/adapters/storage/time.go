package storage

import (
	"fmt"
	"time"
)

// TimeFormat is the canonical timestamp encoding for all tables.
const TimeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// DateFormat is the encoding for date-only columns (payment and due dates).
const DateFormat = "2006-01-02"

// FormatTime encodes a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// FormatDate encodes a date-only value for storage.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseTime decodes a stored timestamp, accepting the formats that have
// appeared in the database over time.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		DateFormat,
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
