// Package calendar handles calendar dates: values that carry a day but no
// meaningful time of day. A date is represented as a time.Time at 00:00 UTC.
package calendar

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DayLayout renders a date as a locale-independent day string, e.g. "Mon Jan 01 2024".
const DayLayout = "Mon Jan 02 2006"

// ISOLayout is the canonical YYYY-MM-DD form.
const ISOLayout = "2006-01-02"

// Years outside this range cannot be encoded by time.Time.MarshalJSON.
const (
	MinYear = 0
	MaxYear = 9999
)

// epochMillisMinDigits keeps short numbers such as "2024" from being read as
// a few milliseconds after the epoch.
const epochMillisMinDigits = 10

// ErrUnparseableDate is returned by Parse when no supported layout matches
// or the date falls outside [MinYear, MaxYear].
var ErrUnparseableDate = errors.New("unparseable date")

var layouts = []string{
	ISOLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"01/02/2006",
	"20060102",
	"2006",
}

// Date truncates t to its calendar day. The day is taken in t's own location.
func Date(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in UTC.
func Today() time.Time {
	return Date(time.Now().UTC())
}

// InRange reports whether date's year lies in [MinYear, MaxYear].
func InRange(date time.Time) bool {
	year := date.Year()
	return year >= MinYear && year <= MaxYear
}

func parseEpochMillis(value string) (time.Time, bool) {
	digits := strings.TrimPrefix(value, "-")
	if len(digits) < epochMillisMinDigits {
		return time.Time{}, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}

	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(millis).UTC(), true
}

// Parse reads raw as a calendar date. Besides the layouts above, which
// include a bare year and the compact YYYYMMDD form, a string of at least ten
// digits is taken as milliseconds since the Unix epoch.
func Parse(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrUnparseableDate
	}

	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return Date(parsed), nil
		}
	}

	if parsed, ok := parseEpochMillis(value); ok && InRange(parsed) {
		return Date(parsed), nil
	}

	return time.Time{}, ErrUnparseableDate
}

// Format renders a date with DayLayout.
func Format(date time.Time) string {
	return Date(date).Format(DayLayout)
}
