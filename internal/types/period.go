// Package types implements special types for the budgeting backend.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Month is a month in a specific year.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs, in UTC.
func MonthOf(t time.Time) Month {
	year, month, _ := t.In(time.UTC).Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}

	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// MarshalJSON implements the json.Marshaler interface.
func (m Month) MarshalJSON() ([]byte, error) {
	return time.Time(m).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface. Accepts
// "YYYY-MM", full dates and RFC3339 timestamps; everything except the
// year and month is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	for _, pattern := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		t, err := time.Parse(pattern, value)
		if err == nil {
			*m = MonthOf(t)
			return nil
		}
	}

	return fmt.Errorf("cannot parse %q as a month", value)
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Contains reports whether the time instant is in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == time.Time(m).Year() && t.Month() == time.Time(m).Month()
}

// FirstDay returns the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Time(m)
}

// LastDay returns the last day of the month.
func (m Month) LastDay() time.Time {
	return time.Time(m.AddDate(0, 1)).AddDate(0, 0, -1)
}

// WeekStart returns the Monday of the week the time instant falls in, in UTC.
func WeekStart(t time.Time) time.Time {
	t = t.In(time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// YearStart returns January 1st of the year the time instant falls in, in UTC.
func YearStart(t time.Time) time.Time {
	return time.Date(t.In(time.UTC).Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}
