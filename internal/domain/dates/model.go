package dates

import (
	"errors"
	"time"
)

// Layout is the canonical serialized form of a DateKey.
const Layout = "2006-01-02"

// ErrInvalidDateKey is returned when a string is not a YYYY-MM-DD date.
var ErrInvalidDateKey = errors.New("date key must be in YYYY-MM-DD form")

// DateKey is a calendar date at day granularity in canonical YYYY-MM-DD (UTC)
// form. Equality and ordering are string equality and ordering, which for
// this layout match chronological order.
type DateKey string

// Parse validates s and returns it as a DateKey.
// PRE: none
// POST: returns ErrInvalidDateKey unless s parses with Layout
func Parse(s string) (DateKey, error) {
	if _, err := time.Parse(Layout, s); err != nil {
		return "", ErrInvalidDateKey
	}
	return DateKey(s), nil
}

// FromTime converts a time to its UTC calendar-day DateKey.
func FromTime(t time.Time) DateKey {
	return DateKey(t.UTC().Format(Layout))
}

// Time returns the date at midnight UTC. Invalid keys yield the zero time.
func (d DateKey) Time() time.Time {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether the key is a well-formed YYYY-MM-DD date.
func (d DateKey) Valid() bool {
	_, err := time.Parse(Layout, string(d))
	return err == nil
}

// AddDays returns the DateKey n days after d (n may be negative).
func (d DateKey) AddDays(n int) DateKey {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week for d.
func (d DateKey) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DayName returns the English weekday name ("Monday" .. "Sunday").
func (d DateKey) DayName() string {
	return d.Weekday().String()
}

// IsWeekday reports whether d falls on Monday through Friday.
func (d DateKey) IsWeekday() bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// Before reports whether d is strictly earlier than other.
func (d DateKey) Before(other DateKey) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d DateKey) After(other DateKey) bool {
	return d > other
}

func (d DateKey) String() string {
	return string(d)
}
