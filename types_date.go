package billbook

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity. Due-date logic in this
// package never looks at time-of-day.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according
// to the layout defined by the argument. See the documentation for [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// AddMonth returns a new Date with the given number of months added,
// normalized the way time.Date normalizes (Jan 31 + 1 month = Mar 2/3).
func (d Date) AddMonth(i int) Date { return NewDate(d.y, d.m+time.Month(i), d.d) }

// DaysIn returns the number of days in the month containing d.
func (d Date) DaysIn() int { return NewDate(d.y, d.m+1, 0).Day() }

// AddMonthsClipped advances d by i calendar months and sets the day of month
// to day, clipped to the last valid day of the target month. This is the due
// date rule: due-day 31 in a 30-day month falls on the 30th, not on the 1st
// of the following month.
func (d Date) AddMonthsClipped(i, day int) Date {
	first := NewDate(d.y, d.m+time.Month(i), 1)
	if last := first.DaysIn(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(first.y, first.m, day)
}

// StartOfMonth returns the first day of the month containing d.
func (d Date) StartOfMonth() Date { return NewDate(d.y, d.m, 1) }

// EndOfMonth returns the last day of the month containing d.
func (d Date) EndOfMonth() Date { return NewDate(d.y, d.m+1, 0) }

// SameMonth reports whether d and x fall in the same calendar month.
func (d Date) SameMonth(x Date) bool { return d.y == x.y && d.m == x.m }

// ParseDate parses a Date from a string. It is lenient and accepts formats
// like "2025-7-1" in addition to the canonical "2025-07-01".
func ParseDate(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		// try the long format used by upstream exports
		on, err = time.Parse(time.RFC3339, str)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParseDate is like ParseDate but panics on error. For tests and constants.
func MustParseDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := ParseDate(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

// MonthKey identifies a calendar month, the grouping unit of monthly ledgers.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the MonthKey of the month containing d.
func MonthOf(d Date) MonthKey { return MonthKey{Year: d.y, Month: d.m} }

// First returns the first day of the month.
func (m MonthKey) First() Date { return NewDate(m.Year, m.Month, 1) }

// Last returns the last day of the month.
func (m MonthKey) Last() Date { return NewDate(m.Year, m.Month+1, 0) }

// Next returns the following calendar month.
func (m MonthKey) Next() MonthKey { return MonthOf(NewDate(m.Year, m.Month+1, 1)) }

// Before reports whether m is strictly before x.
func (m MonthKey) Before(x MonthKey) bool {
	return m.Year < x.Year || (m.Year == x.Year && m.Month < x.Month)
}

// String formats the month as "2006-01".
func (m MonthKey) String() string { return m.First().Format("2006-01") }
