// Package calendar provides calendar-day arithmetic used to bucket activity by day and week.
//
// Every helper works on civil dates in the location of the instant it is given. Two instants
// are compared after converting the second one into the location of the first, so callers
// pick a single reference location per computation.
package calendar

import (
	"fmt"
	"time"
)

// Day is a civil date without a time of day. It is comparable and safe to use as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the civil date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// DayIn returns the civil date of t as observed in loc.
func DayIn(t time.Time, loc *time.Location) Day {
	if loc == nil {
		return DayOf(t)
	}
	return DayOf(t.In(loc))
}

// Time returns midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.utc().AddDate(0, 0, n))
}

// Sub returns the number of calendar days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.utc().Sub(o.utc()) / (24 * time.Hour))
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	return d.Sub(o) < 0
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to, or after o.
func (d Day) Compare(o Day) int {
	switch diff := d.Sub(o); {
	case diff < 0:
		return -1
	case diff > 0:
		return 1
	default:
		return 0
	}
}

// Weekday returns the day of the week of d.
func (d Day) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// String renders d as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// UTC midnight has no DST transitions, so differences are exact multiples of 24h.
func (d Day) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// StartOfDay returns midnight of the day containing t, in t's location.
func StartOfDay(t time.Time) time.Time {
	return DayOf(t).Time(t.Location())
}

// EndOfDay returns the last representable instant of the day containing t.
func EndOfDay(t time.Time) time.Time {
	return DayOf(t).AddDays(1).Time(t.Location()).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the first day of the week containing t.
func StartOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStartsOn) + 7) % 7
	return DayOf(t).AddDays(-offset).Time(t.Location())
}

// EndOfWeek returns the last instant of the week containing t.
func EndOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	start := StartOfWeek(t, weekStartsOn)
	return DayOf(start).AddDays(7).Time(t.Location()).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight of the first day of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar-day boundaries crossed going from a to b,
// negative when b is earlier. Both instants are read in a's location, so 23:59 -> 00:01
// counts as one day regardless of elapsed hours.
func DaysBetween(a, b time.Time) int {
	return DayIn(b, a.Location()).Sub(DayOf(a))
}

// IsSameDay reports whether a and b fall on the same civil date in a's location.
func IsSameDay(a, b time.Time) bool {
	return DayOf(a) == DayIn(b, a.Location())
}

// WithinInclusive reports whether t lies in [start, end].
func WithinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
