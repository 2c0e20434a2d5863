package ir

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// DayDate is a calendar day in UTC.
//
// It is persisted as the millisecond timestamp of its start, so two instants
// on the same UTC day always map to the same bucket regardless of the local
// timezone of the device that produced them.
type DayDate struct {
	t time.Time
}

// DayFromTime truncates t to the start of its UTC day.
func DayFromTime(t time.Time) DayDate {
	u := t.UTC()
	return DayDate{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// DayFromMillis returns the UTC day containing the given epoch milliseconds.
func DayFromMillis(ms int64) DayDate {
	return DayFromTime(time.UnixMilli(ms))
}

// ParseDay parses a YYYY-MM-DD day.
func ParseDay(s string) (DayDate, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return DayDate{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayDate{t: t}, nil
}

// MustParseDay is ParseDay for constants and tests.
func MustParseDay(s string) DayDate {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays returns the day n calendar days later (earlier if n < 0).
func (d DayDate) AddDays(n int) DayDate {
	return DayDate{t: d.t.AddDate(0, 0, n)}
}

// StartOfDayMillis is the persisted form of the day.
func (d DayDate) StartOfDayMillis() int64 {
	return d.t.UnixMilli()
}

// Time returns midnight UTC of the day.
func (d DayDate) Time() time.Time {
	return d.t
}

// Before reports whether d is strictly earlier than other.
func (d DayDate) Before(other DayDate) bool {
	return d.t.Before(other.t)
}

// IsZero reports whether d was never set.
func (d DayDate) IsZero() bool {
	return d.t.IsZero()
}

func (d DayDate) String() string {
	return d.t.Format(dayLayout)
}

// MarshalText encodes the day as YYYY-MM-DD.
func (d DayDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD day.
func (d *DayDate) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
