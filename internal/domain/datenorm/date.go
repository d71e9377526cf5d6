// Package datenorm converts between server-stored timestamps and calendar days.
//
// The persistence layer stores calendar intentions ("March 5th") as UTC
// instants. Converting those instants into a viewer's timezone can move the
// day across midnight, so this package never does that: it reads the date
// components as written and keeps them in a zone-free Date value.
package datenorm

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	hoursPerDay = 24
)

// Date is a civil calendar day with no time-of-day or location.
// The zero value is not a valid day; use NewDate or one of the parsers.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized day for y-m-d; out-of-range components
// roll over the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromInstant returns the UTC date component of a stored instant.
func FromInstant(t time.Time) Date {
	return fromTime(t.UTC())
}

// Today returns the viewer's local day for now in loc. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return fromTime(now.In(loc))
}

func fromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// utc anchors the day at midnight UTC; arithmetic there never meets DST.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns local midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String formats d as YYYY-MM-DD.
func (d Date) String() string { return d.utc().Format(dateLayout) }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.utc().Weekday() }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return fromTime(d.utc().AddDate(0, 0, n)) }

// AddMonths returns the first day of the month n months away from d's month.
// Clamping to the 1st avoids time.AddDate's overflow (Jan 31 + 1 month = Mar 2).
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year, d.Month+time.Month(n), 1)
}

// FirstOfMonth returns the 1st of d's month.
func (d Date) FirstOfMonth() Date { return Date{Year: d.Year, Month: d.Month, Day: 1} }

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date { return d.AddMonths(1).AddDays(-1) }

// StartOfWeek returns the Sunday on or before d.
func (d Date) StartOfWeek() Date { return d.AddDays(-int(d.Weekday())) }

// EndOfWeek returns the Saturday on or after d.
func (d Date) EndOfWeek() Date { return d.AddDays(int(time.Saturday - d.Weekday())) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to,
// or after o.
func (d Date) Compare(o Date) int { return d.utc().Compare(o.utc()) }

// Before reports whether d is before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool { return d == o }

// SameMonth reports whether d and o share year and month.
func (d Date) SameMonth(o Date) bool { return d.Year == o.Year && d.Month == o.Month }

// DaysBetween counts the days from a through b inclusive of both ends,
// floor((b - a) / 24h) + 1. It is zero or negative when b precedes a.
func DaysBetween(a, b Date) int {
	hours := b.utc().Sub(a.utc()).Hours()
	return int(hours/hoursPerDay) + 1
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts any shape
// ToCalendarDate accepts.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ToCalendarDate(string(b))
	if err != nil {
		return fmt.Errorf("unmarshal date: %w", err)
	}
	*d = parsed
	return nil
}
