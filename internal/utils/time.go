package utils

import (
	"errors"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDisplay  = "Jan 2, 2006 3:04 PM"
)

// inputLayouts are the date-time shapes accepted from forms and API payloads.
var inputLayouts = []string{
	layoutDateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// LoadLocation resolves an IANA zone name, falling back to time.Local.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// ParseDate parses YYYY-MM-DD in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
}

// ParseDateTime accepts the form/API date-time layouts in the given location.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date-time")
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date-time " + s)
}

// FormatDate formats time to YYYY-MM-DD in the given location.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in the given location.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDateTime)
}

// FormatDisplay renders a timestamp for tables, e.g. "Jan 2, 2006 3:04 PM".
func FormatDisplay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(layoutDisplay)
}

// FormatClock renders only the wall clock part, e.g. "2:30 PM".
func FormatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("3:04 PM")
}
